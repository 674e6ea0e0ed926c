package catalog

import (
	"fmt"
	"sort"
)

// Category distinguishes the two topic kinds an ID can refer to.
type Category int

const (
	CategoryPackage Category = iota
	CategorySubject
)

func (c Category) String() string {
	if c == CategorySubject {
		return "subject"
	}
	return "package"
}

// NotFoundError reports a topic ID that does not name a topic of the
// requested category: either it is outside the combined ID range, or it
// belongs to the other category's sub-range.
type NotFoundError struct {
	ID       int
	Category Category
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s with ID = %d", e.Category, e.ID)
}

// PackageInfo is one row of the package listing.
type PackageInfo struct {
	ID    int
	Name  string
	Books int
}

// SubjectInfo is one row of the subject listing.
type SubjectInfo struct {
	ID   int
	Name string

	// Packages holds the IDs of packages whose books carry this subject,
	// sorted ascending.
	Packages []int

	Books int
}

// TopicBooks is the answer for one requested topic ID: either the topic's
// display name with its book titles, or a *NotFoundError in Err.
type TopicBooks struct {
	ID     int
	Name   string
	Titles []string
	Err    error
}

// PackageCount returns the number of distinct packages (P). Package IDs
// are 1..P.
func (ix *Index) PackageCount() int {
	return len(ix.packages)
}

// SubjectCount returns the number of distinct subjects (S). Subject IDs
// are P+1..P+S.
func (ix *Index) SubjectCount() int {
	return len(ix.subjects)
}

// Packages lists all packages ordered by ascending ID (which is
// lexicographic name order).
func (ix *Index) Packages() []PackageInfo {
	infos := make([]PackageInfo, 0, len(ix.packages))
	for i, name := range ix.packages {
		id := i + 1
		infos = append(infos, PackageInfo{
			ID:    id,
			Name:  name,
			Books: len(ix.topicBooks[id]),
		})
	}
	return infos
}

// Subjects lists subjects ordered lexicographically by name.
//
// A non-empty filter of package IDs keeps only subjects related to at
// least one of those packages; package IDs that don't exist contribute
// nothing. A nil or empty filter lists every subject.
func (ix *Index) Subjects(filter []int) []SubjectInfo {
	visible := ix.visibleSubjects(filter)

	var infos []SubjectInfo
	for i, name := range ix.subjects {
		if !visible[name] {
			continue
		}

		var pkgIDs []int
		for pkg := range ix.subjectRels[name] {
			pkgIDs = append(pkgIDs, ix.packageIDs[pkg])
		}
		sort.Ints(pkgIDs)

		id := len(ix.packages) + i + 1
		infos = append(infos, SubjectInfo{
			ID:       id,
			Name:     name,
			Packages: pkgIDs,
			Books:    len(ix.topicBooks[id]),
		})
	}
	return infos
}

func (ix *Index) visibleSubjects(filter []int) map[string]bool {
	visible := make(map[string]bool)
	if len(filter) == 0 {
		for _, name := range ix.subjects {
			visible[name] = true
		}
		return visible
	}

	wanted := make(map[int]bool, len(filter))
	for _, id := range filter {
		wanted[id] = true
	}
	for pkg, subjects := range ix.packageRels {
		if !wanted[ix.packageIDs[pkg]] {
			continue
		}
		for subj := range subjects {
			visible[subj] = true
		}
	}
	return visible
}

// BooksFor resolves topic IDs of the given category to their book titles.
//
// Each result is independent: an ID outside the category's sub-range
// (including an ID that belongs to the other category) yields a
// *NotFoundError in that entry's Err, and processing of the remaining IDs
// continues.
func (ix *Index) BooksFor(cat Category, ids []int) []TopicBooks {
	results := make([]TopicBooks, 0, len(ids))
	for _, id := range ids {
		name, ok := ix.nameInCategory(cat, id)
		if !ok {
			results = append(results, TopicBooks{ID: id, Err: &NotFoundError{ID: id, Category: cat}})
			continue
		}

		dois := ix.topicBooks[id]
		titles := make([]string, 0, len(dois))
		for _, doi := range dois {
			titles = append(titles, ix.titles[doi])
		}
		results = append(results, TopicBooks{ID: id, Name: name, Titles: titles})
	}
	return results
}

func (ix *Index) nameInCategory(cat Category, id int) (string, bool) {
	p := len(ix.packages)
	switch cat {
	case CategoryPackage:
		if id < 1 || id > p {
			return "", false
		}
		return ix.packages[id-1], true
	case CategorySubject:
		if id <= p || id > p+len(ix.subjects) {
			return "", false
		}
		return ix.subjects[id-p-1], true
	default:
		return "", false
	}
}

// TopicName returns the display name for any valid topic ID, package or
// subject.
func (ix *Index) TopicName(id int) (string, bool) {
	if name, ok := ix.nameInCategory(CategoryPackage, id); ok {
		return name, true
	}
	return ix.nameInCategory(CategorySubject, id)
}

// BooksForTopic returns the ordered DOIs of any valid topic ID, package
// or subject. It returns nil for an ID outside the combined range.
func (ix *Index) BooksForTopic(id int) []string {
	if id < 1 || id > len(ix.packages)+len(ix.subjects) {
		return nil
	}
	return ix.topicBooks[id]
}

// Title returns the title of an indexed book.
func (ix *Index) Title(doi string) string {
	return ix.titles[doi]
}

// PackageOf returns the name of the package an indexed book belongs to.
func (ix *Index) PackageOf(doi string) string {
	return ix.packageOf[doi]
}
