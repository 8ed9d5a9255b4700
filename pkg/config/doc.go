// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads pkg-analyzer settings from a YAML or JSON file.
//
// Every field has a default from pkg/defaults. A file only needs the keys it
// changes:
//
//	paths:
//	  output_dir: /var/lib/pkg-analyzer/raw
//	timeouts:
//	  repoquery: 90s
//	limits:
//	  package_details: 0
//
// Report paths default to $XDG_DATA_HOME/pkg-analyzer (or
// ~/.local/share/pkg-analyzer) so analyze and report agree regardless of the
// working directory. The top-level output_dir key of older config files is
// accepted as an alias for paths.output_dir.
//
// Load returns the defaults when the file does not exist and an
// INVALID_REQUEST error when it cannot be parsed or names an unknown key.
package config
