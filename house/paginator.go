// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package house

import (
	"github.com/bitmark-inc/auctiond/avl"
	"github.com/bitmark-inc/auctiond/posting"
)

// Paginator - bounded page access over either the live index or a
// materialised search result
type Paginator struct {
	tree    *avl.Tree
	results []*posting.Posting
	limit   int // 0 = everything
}

// newTreePaginator - paginate the live index in id order
func newTreePaginator(tree *avl.Tree, limit int) *Paginator {
	return &Paginator{
		tree:  tree,
		limit: limit,
	}
}

// newSlicePaginator - paginate an already sorted result set
func newSlicePaginator(results []*posting.Posting, limit int) *Paginator {
	return &Paginator{
		results: results,
		limit:   limit,
	}
}

// TotalCount - total matching results after clipping, for the
// client's "X of Y" display
func (pag *Paginator) TotalCount() int {
	n := len(pag.results)
	if nil != pag.tree {
		n = pag.tree.Count()
	}
	if 0 != pag.limit && n > pag.limit {
		n = pag.limit
	}
	return n
}

// GetPage - up to pageSize items starting at offset
func (pag *Paginator) GetPage(offset int, pageSize int) []*posting.Posting {
	total := pag.TotalCount()
	if offset < 0 || pageSize <= 0 || offset >= total {
		return nil
	}

	end := offset + pageSize
	if end > total {
		end = total
	}

	if nil == pag.tree {
		page := make([]*posting.Posting, end-offset)
		copy(page, pag.results[offset:end])
		return page
	}

	page := make([]*posting.Posting, 0, end-offset)
	for node := pag.tree.Get(offset); nil != node && len(page) < end-offset; node = node.Next() {
		page = append(page, node.Value().(*posting.Posting))
	}
	return page
}
