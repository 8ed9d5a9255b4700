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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/pkg-analyzer/pkg/command"
	"github.com/NVIDIA/pkg-analyzer/pkg/config"
	"github.com/NVIDIA/pkg-analyzer/pkg/report"
)

func TestPackagesCollector_Collect(t *testing.T) {
	stub := command.NewStub().
		On("rpm -qa", "a-1.0-1.x86_64\nb-2.0-1.noarch\nc-3.0-1.x86_64\n", 0).
		On("dnf repoquery --userinstalled", "a-0:1.0-1.x86_64\n", 0).
		On(cmdline("rpm", "-qa", "--queryformat", sizeQueryFormat),
			"a|1048576|1.0\nb|3145728|2.0\nc|2097152|3.0\nbroken line\nd|notanumber|1\n", 0).
		On("dnf list installed", "Installed Packages\na.x86_64  1.0-1  @fedora\nb.noarch  2.0-1  @updates\n", 0).
		On("dnf info b", "Name         : b\nSize         : 3.0 M\nSummary      : The B tool\nURL          : https://b.example\n", 0).
		On(cmdline("rpm", "-q", "--queryformat", installTimeQueryFormat, "b"), "1700000000", 0).
		On("dnf repoquery --userinstalled b", "", 0)

	f := newTestFactory(stub, func(c *config.Config) {
		c.Limits.LargestPackages = 2
		c.Limits.PackageDetails = 1
	})

	m, err := f.CreatePackagesCollector().Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, report.PackageSummary{
		TotalPackages: 3,
		UserInstalled: 1,
		Dependencies:  2,
		TotalSizeGB:   0.01,
	}, m.Summary)

	require.Len(t, m.LargestPackages, 2)
	assert.Equal(t, "b", m.LargestPackages[0].Name)
	assert.Equal(t, "@updates", m.LargestPackages[0].Repository)
	assert.InDelta(t, 3.0, m.LargestPackages[0].SizeMB, 0.001)
	assert.Equal(t, "c", m.LargestPackages[1].Name)
	assert.Empty(t, m.LargestPackages[1].Repository)

	require.Len(t, m.AllPackagesSample, 3)
	assert.Equal(t, "a", m.AllPackagesSample[2].Name)
	assert.Equal(t, "@fedora", m.AllPackagesSample[2].Repository)

	require.Len(t, m.Details, 1)
	d := m.Details[0]
	assert.Equal(t, "b", d.Name)
	assert.Equal(t, int64(3<<20), d.SizeBytes)
	assert.Equal(t, "The B tool", d.Description)
	assert.Equal(t, "https://b.example", d.URL)
	assert.Equal(t, report.InstallReasonDependency, d.InstallReason)
	require.NotNil(t, d.InstallDate)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), *d.InstallDate)
}

func TestPackagesCollector_DependenciesNeverNegative(t *testing.T) {
	stub := command.NewStub().
		On("rpm -qa", "a\n", 0).
		On("dnf repoquery --userinstalled", "a\nb\nc\n", 0)

	m, err := newTestFactory(stub).CreatePackagesCollector().Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, m.Summary.TotalPackages)
	assert.Equal(t, 3, m.Summary.UserInstalled)
	assert.Equal(t, 0, m.Summary.Dependencies)
}

func TestPackagesCollector_FailedCountIsZero(t *testing.T) {
	stub := command.NewStub().On("rpm -qa", "a\nb\n", 1)

	m, err := newTestFactory(stub).CreatePackagesCollector().Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, m.Summary.TotalPackages)
}

func TestPackagesCollector_ScanLimitBoundsTotalSize(t *testing.T) {
	stub := command.NewStub().
		On(cmdline("rpm", "-qa", "--queryformat", sizeQueryFormat),
			"a|1073741824|1\nb|1073741824|1\nc|1073741824|1\n", 0)

	f := newTestFactory(stub, func(c *config.Config) {
		c.Limits.PackagesScan = 2
		c.Limits.PackageDetails = 0
	})
	m, err := f.CreatePackagesCollector().Collect(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 2.0, m.Summary.TotalSizeGB, 0)
	assert.Len(t, m.AllPackagesSample, 3)
	assert.Empty(t, m.Details)
}

func TestPackagesCollector_UserInstalledDetail(t *testing.T) {
	stub := command.NewStub().
		On(cmdline("rpm", "-qa", "--queryformat", sizeQueryFormat), "vim|100|9.0\n", 0).
		On("dnf repoquery --userinstalled vim", "vim-2:9.0-1.x86_64\n", 0)

	m, err := newTestFactory(stub).CreatePackagesCollector().Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, m.Details, 1)
	assert.Equal(t, report.InstallReasonUser, m.Details[0].InstallReason)
	assert.Nil(t, m.Details[0].InstallDate)
}

func TestParseInfo_FirstBlockWins(t *testing.T) {
	out := `Installed Packages
Name         : kernel-core
Size         : 60 M
Summary      : The Linux kernel
URL          : https://www.kernel.org/

Available Packages
Name         : kernel-core
Size         : 61 M
Summary      : Other summary
`
	d := report.PackageDetails{Name: "kernel-core"}
	parseInfo(out, &d)
	assert.Equal(t, int64(60<<20), d.SizeBytes)
	assert.Equal(t, "The Linux kernel", d.Description)
	assert.Equal(t, "https://www.kernel.org/", d.URL)
}
