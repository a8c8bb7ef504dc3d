package postgres

func clampLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 500
	}
	return limit
}

// limitArg yields the LIMIT parameter; NULL means no limit in Postgres,
// which unbounded readers rely on.
func limitArg(limit int, unbounded bool) interface{} {
	if unbounded {
		return nil
	}
	return clampLimit(limit)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
