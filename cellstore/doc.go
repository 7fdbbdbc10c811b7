/*
Package cellstore implements immutable, block-based geohash indices. A store
maps cells of any precision to opaque values and is written once, in key
order, then queried by exact hash, by point across all stored precisions
(Reader.Lookup) or by proximity (Reader.Nearby).

Keys are geohash.Key values, which sort in the same order as the hashes they
encode, so a parent cell is always stored directly before its children.
Unsorted input can be passed through a Sorter first.

# Layout

	+---------+-----+---------+-------+-------+--------+
	| block 1 | ... | block n | index | stats | footer |
	+---------+-----+---------+-------+-------+--------+

The index holds one pair of uvarints per block: the largest key in the block
and the block offset, both delta-encoded against the previous block. The
stats hold twelve uvarints, the number of stored cells per precision, and
allow lookups to skip precisions without cells. The footer is 24 bytes long:

	+--------------------+--------------------+-----------------+
	| index offset (LE8) | stats offset (LE8) | magic (8 bytes) |
	+--------------------+--------------------+-----------------+

# Blocks

A block is a series of sections followed by the section offsets, the number
of sections and a trailing compression byte (0 = none, 1 = snappy). Blocks are
only stored compressed if that saves at least an eighth of their size.

	+-----------+-----+-----------+-------------+-----+-------------+--------------+-------------+
	| section 1 | ... | section n | offset (LE4)| ... | offset (LE4)| count (LE4)  | compression |
	+-----------+-----+-----------+-------------+-----+-------------+--------------+-------------+

Each section holds up to Options.SectionSize entries. The first key of a
section is stored in full, subsequent keys as deltas. Values are length
prefixed:

	+---------------+-------------------+-------+-----+
	| key (uvarint) | value len (uvarint) | value | ... |
	+---------------+-------------------+-------+-----+
*/
package cellstore
