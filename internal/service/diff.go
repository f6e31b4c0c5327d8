package service

// diffIDs computes the deltas turning the current id set into the requested
// one. Both inputs are deduplicated; order is not preserved.
func diffIDs(current, requested []string) (add, remove []string) {
	currentSet := make(map[string]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}
	requestedSet := make(map[string]struct{}, len(requested))
	for _, id := range requested {
		requestedSet[id] = struct{}{}
	}

	add = []string{}
	for id := range requestedSet {
		if _, ok := currentSet[id]; !ok {
			add = append(add, id)
		}
	}
	remove = []string{}
	for id := range currentSet {
		if _, ok := requestedSet[id]; !ok {
			remove = append(remove, id)
		}
	}
	return add, remove
}
