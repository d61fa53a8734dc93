// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"strconv"

	"github.com/google/uuid"
)

// nextID returns simplify_<seq>_<uuidv7>. The counter keeps ids unique
// within the channel; the time-ordered UUID keeps them unique across
// channels sharing a remote worker.
func (c *Channel) nextID() string {
	seq := c.seq.Add(1)
	u, err := uuid.NewV7()
	if err != nil {
		u = uuid.New()
	}
	return "simplify_" + strconv.FormatUint(seq, 10) + "_" + u.String()
}
