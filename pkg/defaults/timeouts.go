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

package defaults

import "time"

// Command timeouts for package manager invocations.
const (
	// QueryTimeout bounds single-package queries such as rpm -q.
	QueryTimeout = 5 * time.Second

	// InfoTimeout bounds dnf info and du calls.
	InfoTimeout = 10 * time.Second

	// CountTimeout bounds rpm -qa and dnf repoquery --userinstalled.
	CountTimeout = 20 * time.Second

	// ListTimeout bounds full listings (dnf list installed, rpm -qa --queryformat,
	// dnf repoquery --duplicates, dnf autoremove --assumeno).
	ListTimeout = 30 * time.Second

	// RepoQueryTimeout bounds commands that may refresh repository metadata
	// (dnf check-update, dnf repoquery --unneeded, dnf check).
	RepoQueryTimeout = 60 * time.Second

	// VerifyTimeout bounds rpm -Va.
	VerifyTimeout = 120 * time.Second
)

// HTTP client timeouts for outbound requests.
const (
	// GenerateTimeout is the total timeout for one AI generation request.
	GenerateTimeout = 120 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second
)

// CLI timeouts for command-line operations.
const (
	// CLIAnalyzeTimeout caps a whole analyze run.
	CLIAnalyzeTimeout = 15 * time.Minute
)
