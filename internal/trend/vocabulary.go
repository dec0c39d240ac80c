package trend

import (
	"sort"
)

// BucketFor returns the date bucket of a record. Day and month level dates
// bucket by UTC month ("2024-09", "September 2024"). Everything else,
// quarter and half tokens included, buckets by its literal text.
func BucketFor(r Record) (DateBucket, bool) {
	if r.PublishedAt != nil && (r.Precision == PrecisionDay || r.Precision == PrecisionMonth) {
		t := r.PublishedAt.UTC()
		return DateBucket{Key: t.Format("2006-01"), Label: t.Format("January 2006")}, true
	}
	if r.OriginalDateText != "" {
		return DateBucket{Key: r.OriginalDateText, Label: r.OriginalDateText}, true
	}
	return DateBucket{}, false
}

// BuildVocabulary derives the filter options of a record set.
func BuildVocabulary(records []Record) Vocabulary {
	publishers := make(map[string]struct{})
	tags := make(map[string]struct{})
	locations := make(map[string]struct{})

	for _, r := range records {
		if r.Publisher != "" && r.Publisher != PublisherUnknown {
			publishers[r.Publisher] = struct{}{}
		}
		for _, t := range r.Tags {
			tags[t] = struct{}{}
		}
		for _, l := range r.Locations {
			locations[l] = struct{}{}
		}
	}

	return Vocabulary{
		Publishers:  sortedKeys(publishers),
		Tags:        sortedKeys(tags),
		Locations:   sortedKeys(locations),
		DateBuckets: DateBuckets(records),
	}
}

// DateBuckets lists the distinct date buckets, newest first. Buckets dedupe
// by key with the first-seen label kept; equal dates keep first-seen order
// and unparseable keys sort last.
func DateBuckets(records []Record) []DateBucket {
	seen := make(map[string]struct{})
	buckets := make([]DateBucket, 0)

	for _, r := range records {
		b, ok := BucketFor(r)
		if !ok {
			continue
		}
		if _, dup := seen[b.Key]; dup {
			continue
		}
		seen[b.Key] = struct{}{}
		buckets = append(buckets, b)
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return SortableDate(buckets[i].Key).After(SortableDate(buckets[j].Key))
	})
	return buckets
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
