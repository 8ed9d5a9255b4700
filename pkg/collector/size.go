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
	"fmt"
	"math"
	"strconv"
	"strings"
)

var sizeUnits = map[string]int{
	"":    0,
	"b":   0,
	"k":   1,
	"kb":  1,
	"kib": 1,
	"m":   2,
	"mb":  2,
	"mib": 2,
	"g":   3,
	"gb":  3,
	"gib": 3,
	"t":   4,
	"tb":  4,
	"tib": 4,
}

// ParseSize converts dnf and du size text ("1.5 M", "340 k", "2GiB") to
// bytes. Units are binary: value * 1024^n, truncated toward zero.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.' || s[i] == ',') {
		i++
	}
	num := strings.ReplaceAll(s[:i], ",", ".")
	unit := strings.ToLower(strings.TrimSpace(s[i:]))

	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	exp, ok := sizeUnits[unit]
	if !ok {
		return 0, fmt.Errorf("invalid size unit %q in %q", unit, s)
	}

	bytes := math.Trunc(value * math.Pow(1024, float64(exp)))
	// float64(math.MaxInt64) rounds up to 2^63, which no int64 can hold.
	if bytes >= float64(math.MaxInt64) {
		return 0, fmt.Errorf("size %q overflows int64", s)
	}
	return int64(bytes), nil
}
