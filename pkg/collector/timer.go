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
	"log/slog"
	"time"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/NVIDIA/pkg-analyzer/pkg/report"
)

// UnitStater reports the state of a systemd unit.
type UnitStater interface {
	UnitState(ctx context.Context, unit string) (*report.AutoUpdate, error)
}

// unitConn is the part of *dbus.Conn used here.
type unitConn interface {
	GetUnitPropertiesContext(ctx context.Context, unit string) (map[string]any, error)
	Close()
}

// SystemdUnitStater reads unit properties over the systemd D-Bus API.
type SystemdUnitStater struct {
	// Timeout bounds the connect and property calls together. Zero means no
	// limit beyond ctx.
	Timeout time.Duration

	connect func(ctx context.Context) (unitConn, error)
}

// UnitState returns ActiveState and whether UnitFileState is enabled.
func (s *SystemdUnitStater) UnitState(ctx context.Context, unit string) (*report.AutoUpdate, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	connect := s.connect
	if connect == nil {
		connect = func(ctx context.Context) (unitConn, error) {
			return dbus.NewSystemdConnectionContext(ctx)
		}
	}
	conn, err := connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to systemd: %w", err)
	}
	defer conn.Close()

	props, err := conn.GetUnitPropertiesContext(ctx, unit)
	if err != nil {
		return nil, fmt.Errorf("failed to get unit properties: %w", err)
	}

	return unitState(unit, props), nil
}

func unitState(unit string, props map[string]any) *report.AutoUpdate {
	au := &report.AutoUpdate{Unit: unit}
	if v, ok := props["ActiveState"].(string); ok {
		au.ActiveState = v
	}
	if v, ok := props["UnitFileState"].(string); ok {
		au.Enabled = v == "enabled"
	}
	slog.Debug("unit state", "unit", unit, "active", au.ActiveState, "enabled", au.Enabled)
	return au
}
