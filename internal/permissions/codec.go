// Package permissions converts between OpenNebula permission bits and
// Unix-style octal strings, and applies permission and ownership changes
// with change detection and check mode.
package permissions

import (
	"fmt"
	"strconv"

	"github.com/jbweber/onectl/internal/resource"
)

// Encode packs the 9 permission bits into a 3-digit octal string such as
// "640". Each triplet is use*4 + manage*2 + admin.
func Encode(p resource.Permissions) string {
	owner := p.OwnerU*4 + p.OwnerM*2 + p.OwnerA
	group := p.GroupU*4 + p.GroupM*2 + p.GroupA
	other := p.OtherU*4 + p.OtherM*2 + p.OtherA
	return strconv.Itoa(owner) + strconv.Itoa(group) + strconv.Itoa(other)
}

// Decode parses a 3-digit octal string into permission bits.
func Decode(octal string) (resource.Permissions, error) {
	if err := Validate(octal); err != nil {
		return resource.Permissions{}, err
	}

	value, err := strconv.ParseUint(octal, 8, 16)
	if err != nil {
		return resource.Permissions{}, fmt.Errorf("invalid permissions %q: %w", octal, err)
	}

	// Most significant bit first, zero padded to 9 bits: 600 -> 110000000
	var bits [9]int
	for i := 0; i < 9; i++ {
		bits[i] = int(value>>(8-i)) & 1
	}

	return resource.Permissions{
		OwnerU: bits[0], OwnerM: bits[1], OwnerA: bits[2],
		GroupU: bits[3], GroupM: bits[4], GroupA: bits[5],
		OtherU: bits[6], OtherM: bits[7], OtherA: bits[8],
	}, nil
}

// Validate checks that octal is exactly three ASCII digits in 0..7.
func Validate(octal string) error {
	if len(octal) != 3 {
		return fmt.Errorf("invalid permissions %q: expected 3 octal digits", octal)
	}
	for _, c := range octal {
		if c < '0' || c > '7' {
			return fmt.Errorf("invalid permissions %q: digit %q is not in 0-7", octal, c)
		}
	}
	return nil
}
