package staging

import "sort"

// Classification is the pending/history split of a collection at one stage.
// A record whose planned field is blank for the stage appears in neither
// list: it has not reached the stage yet.
type Classification struct {
	Pending []Record
	History []Record
}

// Classify splits records into pending (planned set, actual empty) and
// history (actual set) for the given stage, preserving input order within
// each list.
func Classify(records []Record, def StageDefinition) Classification {
	var c Classification
	for _, r := range records {
		switch {
		case StagePending(r, def):
			c.Pending = append(c.Pending, r)
		case StageCompleted(r, def):
			c.History = append(c.History, r)
		}
	}
	return c
}

// SortByKeyDesc orders records by their natural key, descending
// lexicographic. Stable, so records sharing a key keep their relative
// order. Views that emulate the dashboard's pending lists ask for this
// explicitly; Classify itself never reorders.
func SortByKeyDesc(records []Record, keyField string) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Str(keyField) > records[j].Str(keyField)
	})
}
