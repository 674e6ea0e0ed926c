package catalog

import (
	"fmt"
	"sort"
	"strings"

	"springerdl/internal/model"
)

// Topic names longer than maxTopicLen are truncated for display with an
// ellipsis marker. The truncated form becomes the canonical key: it is
// applied before any map insertion, so two raw names that truncate to the
// same string are the same topic from that point on.
const (
	maxTopicLen = 50
	ellipsis    = "..."
)

// IndexingError means a raw listing record is missing a required field.
// Indexing stops at the first malformed record; no partial index is
// returned.
type IndexingError struct {
	// Row is the 1-based position of the record in the raw listing.
	Row int

	// Missing names the absent field: "title", "package" or "identifier".
	Missing string
}

func (e *IndexingError) Error() string {
	return fmt.Sprintf("listing record %d has no %s", e.Row, e.Missing)
}

// Index is the built taxonomy: books cross-referenced with packages,
// subjects and numeric topic IDs.
//
// Packages get IDs 1..P and subjects P+1..P+S, each range assigned in
// lexicographic name order, so an ID alone tells which category it
// belongs to. An Index is immutable once built; rebuilding means calling
// Build again.
type Index struct {
	titles    map[string]string // DOI -> title
	packageOf map[string]string // DOI -> package name

	packages []string // package names, sorted; ID of packages[i] is i+1
	subjects []string // subject names, sorted; ID of subjects[i] is len(packages)+i+1

	packageIDs map[string]int
	subjectIDs map[string]int

	topicBooks map[int][]string // topic ID -> DOIs in listing order

	packageRels map[string]map[string]bool // package name -> subject names
	subjectRels map[string]map[string]bool // subject name -> package names
}

// Build indexes the raw listing records into an Index.
//
// Every record must carry a title, a package and an identifier; the
// subject field may be empty, in which case the book is indexed only
// under its package. Duplicate rows are kept as-is (book counts reflect
// the listing, not a deduplicated set).
func Build(records []model.RawBook) (*Index, error) {
	ix := &Index{
		titles:      make(map[string]string),
		packageOf:   make(map[string]string),
		packageIDs:  make(map[string]int),
		subjectIDs:  make(map[string]int),
		topicBooks:  make(map[int][]string),
		packageRels: make(map[string]map[string]bool),
		subjectRels: make(map[string]map[string]bool),
	}

	packageBooks := make(map[string][]string)
	subjectBooks := make(map[string][]string)

	for i, rec := range records {
		switch {
		case strings.TrimSpace(rec.Title) == "":
			return nil, &IndexingError{Row: i + 1, Missing: "title"}
		case strings.TrimSpace(rec.Package) == "":
			return nil, &IndexingError{Row: i + 1, Missing: "package"}
		case strings.TrimSpace(rec.DOI) == "":
			return nil, &IndexingError{Row: i + 1, Missing: "identifier"}
		}

		packageBooks[rec.Package] = append(packageBooks[rec.Package], rec.DOI)
		ix.titles[rec.DOI] = rec.Title
		ix.packageOf[rec.DOI] = rec.Package
		if ix.packageRels[rec.Package] == nil {
			ix.packageRels[rec.Package] = make(map[string]bool)
		}

		for _, subj := range splitSubjects(rec.Subjects) {
			subjectBooks[subj] = append(subjectBooks[subj], rec.DOI)
			ix.packageRels[rec.Package][subj] = true
			if ix.subjectRels[subj] == nil {
				ix.subjectRels[subj] = make(map[string]bool)
			}
			ix.subjectRels[subj][rec.Package] = true
		}
	}

	ix.packages = sortedKeys(packageBooks)
	ix.subjects = sortedKeys(subjectBooks)

	for i, name := range ix.packages {
		id := i + 1
		ix.packageIDs[name] = id
		ix.topicBooks[id] = packageBooks[name]
	}
	for i, name := range ix.subjects {
		id := len(ix.packages) + i + 1
		ix.subjectIDs[name] = id
		ix.topicBooks[id] = subjectBooks[name]
	}

	return ix, nil
}

// splitSubjects splits the raw semicolon-separated subject field into
// canonical (trimmed, truncated) subject names. Empty entries are dropped.
func splitSubjects(field string) []string {
	var subjects []string
	for _, part := range strings.Split(field, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		subjects = append(subjects, truncateTopic(part))
	}
	return subjects
}

// truncateTopic bounds a topic name to maxTopicLen display characters,
// marking truncation with an ellipsis.
func truncateTopic(name string) string {
	runes := []rune(name)
	if len(runes) < maxTopicLen {
		return name
	}
	return string(runes[:maxTopicLen-len(ellipsis)]) + ellipsis
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
