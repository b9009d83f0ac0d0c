package formula

import (
	"log/slog"
	"strconv"
	"strings"
)

func registerData(r *Registry) {
	r.register(&Builtin{Name: "INDEX", MinArgs: 2, MaxArgs: 3, fn: fnIndex})
	r.register(&Builtin{Name: "VLOOKUP", MinArgs: 3, MaxArgs: 4, fn: fnVlookup})
	r.register(&Builtin{Name: "UNIQUE", MinArgs: 0, MaxArgs: variadic, fn: fnUnique})
	r.register(&Builtin{Name: "ISBLANK", MinArgs: 1, MaxArgs: 1, fn: fnIsBlank})
	r.register(&Builtin{Name: "ISNUMBER", MinArgs: 1, MaxArgs: 1, fn: fnIsNumber})
}

// fnIndex selects a row (1-based) from a range, and optionally a column
// within that row. A numeric column indexes a row sequence or a record's
// insertion-ordered values; a string column looks up a record key. Row or
// column out of bounds raises #REF!.
func fnIndex(_ *callContext, args []any) (any, error) {
	seq := asSequence(args[0])

	row, err := toNumber(args[1])
	if err != nil {
		return nil, err
	}

	idx := int(row)
	if idx < 1 || idx > len(seq) {
		return nil, ErrRef.With(
			slog.String("function", "INDEX"),
			slog.Int("row", idx),
			slog.Int("rows", len(seq)),
		)
	}

	el := seq[idx-1]
	if len(args) < 3 || args[2] == nil {
		return el, nil
	}

	return indexColumn(el, args[2])
}

func indexColumn(el, col any) (any, error) {
	if key, ok := col.(string); ok {
		rec, ok := el.(*Record)
		if !ok {
			return nil, ErrValue.With(
				slog.String("function", "INDEX"),
				slog.String("issue", "string column requires a record row"),
				slog.String("type", TypeOf(el).String()),
			)
		}

		v, ok := rec.Get(key)
		if !ok {
			return nil, ErrRef.With(
				slog.String("function", "INDEX"),
				slog.String("key", key),
			)
		}

		return v, nil
	}

	n, err := toNumber(col)
	if err != nil {
		return nil, err
	}

	var vals []any

	switch t := el.(type) {
	case *Record:
		vals = t.Values()
	case []any:
		vals = t
	default:
		return nil, ErrValue.With(
			slog.String("function", "INDEX"),
			slog.String("issue", "row is not indexable"),
			slog.String("type", TypeOf(el).String()),
		)
	}

	idx := int(n)
	if idx < 1 || idx > len(vals) {
		return nil, ErrRef.With(
			slog.String("function", "INDEX"),
			slog.Int("col", idx),
			slog.Int("cols", len(vals)),
		)
	}

	return vals[idx-1], nil
}

// fnVlookup searches a sequence of records by the value of each record's
// first key. With exact matching (the default) it returns the column from
// the first record whose first-key value equals the lookup key; otherwise
// it returns the record with the largest numeric first-column not
// exceeding a numeric key. No match raises #N/A.
func fnVlookup(_ *callContext, args []any) (any, error) {
	key := args[0]

	recs, err := vlookupRange(args[1])
	if err != nil {
		return nil, err
	}

	col, err := toNumber(args[2])
	if err != nil {
		return nil, err
	}

	exact := true

	if len(args) > 3 && args[3] != nil {
		exact, err = toBool(args[3])
		if err != nil {
			return nil, err
		}
	}

	match := vlookupExact(key, recs)

	if match == nil && !exact {
		match = vlookupApprox(key, recs)
	}

	if match == nil {
		return nil, ErrNA.With(
			slog.String("function", "VLOOKUP"),
			slog.String("key", toString(key)),
		)
	}

	vals := match.Values()

	idx := int(col)
	if idx < 1 || idx > len(vals) {
		return nil, ErrRef.With(
			slog.String("function", "VLOOKUP"),
			slog.Int("col", idx),
			slog.Int("cols", len(vals)),
		)
	}

	return vals[idx-1], nil
}

func vlookupRange(v any) ([]*Record, error) {
	recs := make([]*Record, 0, 8)

	for _, el := range asSequence(v) {
		rec, ok := el.(*Record)
		if !ok {
			return nil, ErrValue.With(
				slog.String("function", "VLOOKUP"),
				slog.String("issue", "range must be a sequence of records"),
				slog.String("type", TypeOf(el).String()),
			)
		}

		recs = append(recs, rec)
	}

	return recs, nil
}

func recordFirstValue(rec *Record) (any, bool) {
	keys := rec.Keys()
	if len(keys) == 0 {
		return nil, false
	}

	v, _ := rec.Get(keys[0])

	return v, true
}

func vlookupExact(key any, recs []*Record) *Record {
	for _, rec := range recs {
		first, ok := recordFirstValue(rec)
		if ok && looseEqual(key, first) {
			return rec
		}
	}

	return nil
}

// vlookupApprox returns the record with the largest numeric first column
// not exceeding the key. Both the key and a candidate column must parse
// as numbers to participate.
func vlookupApprox(key any, recs []*Record) *Record {
	target, err := toNumber(key)
	if err != nil {
		return nil
	}

	var (
		best    *Record
		bestVal float64
	)

	for _, rec := range recs {
		first, ok := recordFirstValue(rec)
		if !ok {
			continue
		}

		n, err := toNumber(first)
		if err != nil || n > target {
			continue
		}

		if best == nil || n > bestVal {
			best, bestVal = rec, n
		}
	}

	return best
}

// fnUnique deep-flattens its arguments and removes duplicates, keeping
// first-seen order. Equality is same-kind; records are each distinct.
func fnUnique(_ *callContext, args []any) (any, error) {
	flat := flatten(args)

	out := make([]any, 0, len(flat))
	seen := make(map[string]bool, len(flat))

	for _, el := range flat {
		key, ok := uniqueKey(el)
		if ok && seen[key] {
			continue
		}

		seen[key] = true

		out = append(out, el)
	}

	return out, nil
}

// uniqueKey builds a dedup key tagged with the value's type so that, for
// example, the number 1 and the string "1" stay distinct.
func uniqueKey(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "null", true

	case bool:
		return "bool:" + strconv.FormatBool(t), true

	case float64:
		return "num:" + strconv.FormatFloat(t, 'g', -1, 64), true

	case string:
		return "str:" + t, true

	default:
		return "", false
	}
}

// fnIsBlank is true for null, all-whitespace strings, and the textual
// database null marker.
func fnIsBlank(_ *callContext, args []any) (any, error) {
	switch t := args[0].(type) {
	case nil:
		return true, nil

	case string:
		trimmed := strings.TrimSpace(t)

		return trimmed == "" || strings.EqualFold(trimmed, "null"), nil

	default:
		return false, nil
	}
}

// fnIsNumber is true for numeric values and strings that fully parse as
// decimal numbers.
func fnIsNumber(_ *callContext, args []any) (any, error) {
	switch t := args[0].(type) {
	case float64:
		return true, nil

	case string:
		_, err := strconv.ParseFloat(strings.TrimSpace(t), 64)

		return err == nil, nil

	default:
		return false, nil
	}
}
