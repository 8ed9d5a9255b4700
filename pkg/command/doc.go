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

// Package command runs external package manager commands with a per-call
// time ceiling.
//
// ExecRunner is the production implementation. A non-zero exit status is
// not an error: the Result carries the exit code and callers decide what it
// means (dnf check-update exits 100 when updates exist). Errors are
// reserved for commands that could not run to completion: binary missing,
// timeout, or cancellation of the parent context.
//
//	r := command.NewExecRunner()
//	res, err := r.Run(ctx, command.Spec{
//	    Name:    "rpm",
//	    Args:    []string{"-qa"},
//	    Timeout: defaults.CountTimeout,
//	})
//
// Stub is an in-memory Runner for tests.
package command
