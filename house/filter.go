// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package house

import (
	"strings"

	"github.com/bitmark-inc/auctiond/catalog"
)

// Filter - browse predicate; every set condition must pass
//
// a zero mask matches everything so clients only set the masks they
// care about
type Filter struct {
	QualityMask       uint32           // bit per quality tier
	ClassMask         uint32           // bit per item class
	SubClassMask      map[uint8]uint32 // per class, absent class = any subclass
	InventoryTypeMask uint32           // bit per inventory slot
	MinLevel          uint8
	MaxLevel          uint8
	Name              string
	ExactName         bool
	Locale            catalog.Locale
	UsableOnly        bool
}

// IsEmpty - an empty filter selects the whole catalog and is served
// straight from the live index without a search session
func (f *Filter) IsEmpty() bool {
	if nil == f {
		return true
	}
	return 0 == f.QualityMask &&
		0 == f.ClassMask &&
		0 == len(f.SubClassMask) &&
		0 == f.InventoryTypeMask &&
		0 == f.MinLevel &&
		0 == f.MaxLevel &&
		"" == f.Name &&
		!f.UsableOnly
}

// Match - evaluate the predicate for one item template
func (f *Filter) Match(requester uint64, template *catalog.Template, usable catalog.UsableChecker) bool {

	if 0 != f.QualityMask && 0 == f.QualityMask&(1<<template.Quality) {
		return false
	}

	if 0 != f.ClassMask && 0 == f.ClassMask&(1<<template.Class) {
		return false
	}

	// the subclass mask only constrains its own class
	if mask, ok := f.SubClassMask[template.Class]; ok && 0 != mask {
		if 0 == mask&(1<<template.SubClass) {
			return false
		}
	}

	if 0 != f.InventoryTypeMask && 0 == f.InventoryTypeMask&(1<<template.InventoryType) {
		return false
	}

	if 0 != f.MinLevel && template.RequiredLevel < f.MinLevel {
		return false
	}
	if 0 != f.MaxLevel && template.RequiredLevel > f.MaxLevel {
		return false
	}

	if "" != f.Name {
		name := template.LocalName(f.Locale)
		if f.ExactName {
			if !strings.EqualFold(name, f.Name) {
				return false
			}
		} else if !strings.Contains(strings.ToLower(name), strings.ToLower(f.Name)) {
			return false
		}
	}

	if f.UsableOnly {
		if nil == usable || !usable.Usable(requester, template) {
			return false
		}
	}

	return true
}
