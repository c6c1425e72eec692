package reconcile

import "sort"

// Diff compares the local snapshot against the remote one. It returns one
// result per key present on either side, sorted by key. Duplicate keys within
// one side keep the last occurrence.
func Diff[T any](local, remote []T, key func(T) string, equal func(a, b T) bool) []Result {
	localIndex := buildIndex(local, key)
	remoteIndex := buildIndex(remote, key)

	union := buildUnion(localIndex, remoteIndex)

	results := make([]Result, 0, len(union))
	for k := range union {
		results = append(results, buildResult(k, localIndex, remoteIndex, equal))
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Key < results[j].Key
	})
	return results
}

// Summarize counts results by change.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Change() {
		case ChangeAdded:
			s.Added++
		case ChangeUpdated:
			s.Updated++
		case ChangeRemoved:
			s.Removed++
		default:
			s.Unchanged++
		}
	}
	return s
}

func buildIndex[T any](items []T, key func(T) string) map[string]T {
	index := make(map[string]T, len(items))
	for _, item := range items {
		index[key(item)] = item
	}
	return index
}

func buildUnion[T any](local, remote map[string]T) map[string]struct{} {
	union := make(map[string]struct{}, len(local)+len(remote))
	for k := range local {
		union[k] = struct{}{}
	}
	for k := range remote {
		union[k] = struct{}{}
	}
	return union
}

func buildResult[T any](key string, local, remote map[string]T, equal func(a, b T) bool) Result {
	l, inLocal := local[key]
	r, inRemote := remote[key]

	result := Result{
		Key:           key,
		LocalPresent:  inLocal,
		RemotePresent: inRemote,
	}
	if inLocal && inRemote {
		result.Changed = !equal(l, r)
	}
	return result
}
