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

package collector

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/pkg-analyzer/pkg/command"
	"github.com/NVIDIA/pkg-analyzer/pkg/report"
)

func verifyLines(n int) string {
	var b strings.Builder
	for i := range n {
		fmt.Fprintf(&b, "Unsatisfied dependencies for pkg%d\n", i)
	}
	return b.String()
}

func TestDependenciesCollector_Collect(t *testing.T) {
	stub := command.NewStub().
		On("dnf check", "foo-1.0-1.x86_64 has missing requires of libbar.so.1\nsome other line\nbaz is BROKEN\n", 1).
		On("rpm -Va --nofiles --nodigest", verifyLines(12), 1).
		On("dnf repoquery --duplicates",
			"kernel-0:6.5.6-300.fc39.x86_64\nkernel-0:6.7.4-200.fc39.x86_64\nglibc-0:2.38-14.fc39.x86_64\n", 0)

	m, err := newTestFactory(stub).CreateDependenciesCollector().Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12, m.BrokenDependencies, "2 from dnf check plus 10 verify lines")
	require.Len(t, m.BrokenList, 12)
	assert.Equal(t, report.DependencyIssue{
		Issue:  "foo-1.0-1.x86_64 has missing requires of libbar.so.1",
		Source: report.SourceDNFCheck,
	}, m.BrokenList[0])
	assert.Equal(t, report.SourceDNFCheck, m.BrokenList[1].Source)
	assert.Equal(t, report.SourceRPMVerify, m.BrokenList[2].Source)
	assert.Equal(t, "Unsatisfied dependencies for pkg9", m.BrokenList[11].Issue)

	assert.Equal(t, 3, m.DuplicatePackages)
	require.Len(t, m.DuplicateList, 3)
	assert.Equal(t, "glibc", m.DuplicateList[0].Name)
	assert.Equal(t, "kernel", m.DuplicateList[1].Name)
	assert.Equal(t, "0:6.7.4-200.fc39", m.DuplicateList[1].Version)
	assert.Equal(t, "0:6.5.6-300.fc39", m.DuplicateList[2].Version)
	assert.True(t, m.HasIssues)
}

func TestDependenciesCollector_CleanCheckIgnored(t *testing.T) {
	stub := command.NewStub().On("dnf check", "nothing missing here\n", 0)

	m, err := newTestFactory(stub).CreateDependenciesCollector().Collect(context.Background())
	require.NoError(t, err)
	assert.Zero(t, m.BrokenDependencies)
	assert.False(t, m.HasIssues)
}

func TestDependenciesCollector_ListCap(t *testing.T) {
	stub := command.NewStub().On("dnf check", strings.Repeat("x is missing y\n", 25), 1)

	m, err := newTestFactory(stub).CreateDependenciesCollector().Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, m.BrokenDependencies)
	assert.Len(t, m.BrokenList, 20)
}

func TestParseNEVRA(t *testing.T) {
	tests := []struct {
		in   string
		want report.DuplicatePackage
	}{
		{"kernel-0:6.5.6-300.fc39.x86_64", report.DuplicatePackage{Package: "kernel-0:6.5.6-300.fc39.x86_64", Name: "kernel", Version: "0:6.5.6-300.fc39"}},
		{"python3-libs-3.12.1-2.fc39.x86_64", report.DuplicatePackage{Package: "python3-libs-3.12.1-2.fc39.x86_64", Name: "python3-libs", Version: "3.12.1-2.fc39"}},
		{"odd", report.DuplicatePackage{Package: "odd"}},
		{"one-dash.x86_64", report.DuplicatePackage{Package: "one-dash.x86_64"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseNEVRA(tt.in))
		})
	}
}
