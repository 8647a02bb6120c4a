package table

// Merge folds every table in srcs into dst and returns dst.
//
// Keys absent from dst are inserted, keys present in both are combined with
// Stats.Merge. A key missing from any input simply contributes zero
// observations. The result does not depend on the order of srcs.
//
// Ownership of dst passes to the caller; srcs are only read and must not
// alias dst. When dst is nil a new table is created.
func Merge(dst *Table, srcs ...*Table) *Table {
	if dst == nil {
		dst = New(0)
	}

	for _, src := range srcs {
		if src == nil {
			continue
		}
		for i := range src.entries {
			e := &src.entries[i]
			dst.mergeEntry(e.hash, e.key, e.stats)
		}
	}

	return dst
}

// MergeAll merges tables into the largest one of them, which is used as the
// accumulator to minimise inserts. It returns an empty table when no
// non-nil table is given.
func MergeAll(tables ...*Table) *Table {
	base := -1
	for i, t := range tables {
		if t != nil && (base < 0 || t.Len() > tables[base].Len()) {
			base = i
		}
	}
	if base < 0 {
		return New(0)
	}

	dst := tables[base]
	for i, t := range tables {
		if i != base {
			Merge(dst, t)
		}
	}

	return dst
}
