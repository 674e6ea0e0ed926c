package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"springerdl/internal/model"
)

func TestPackages(t *testing.T) {
	ix, err := Build(exampleRecords())
	require.NoError(t, err)

	packages := ix.Packages()
	require.Len(t, packages, 2)

	assert.Equal(t, PackageInfo{ID: 1, Name: "Pkg1", Books: 2}, packages[0])
	assert.Equal(t, PackageInfo{ID: 2, Name: "Pkg2", Books: 1}, packages[1])

	// Summing book counts over all packages equals the number of raw
	// records, since every record names a package.
	total := 0
	for _, p := range packages {
		total += p.Books
	}
	assert.Equal(t, len(exampleRecords()), total)
}

func TestSubjects_Filtered(t *testing.T) {
	ix, err := Build(exampleRecords())
	require.NoError(t, err)

	// Pkg2 (ID 2) only relates to Physics.
	subjects := ix.Subjects([]int{2})
	require.Len(t, subjects, 1)
	assert.Equal(t, "Physics", subjects[0].Name)
	assert.Equal(t, 4, subjects[0].ID)
	assert.Equal(t, []int{1, 2}, subjects[0].Packages)
	assert.Equal(t, 2, subjects[0].Books)

	// Pkg1 relates to both subjects.
	assert.Len(t, ix.Subjects([]int{1}), 2)

	// Unknown package IDs in the filter contribute nothing.
	assert.Empty(t, ix.Subjects([]int{99}))
	assert.Len(t, ix.Subjects([]int{1, 99}), 2)
}

func TestBooksFor_Packages(t *testing.T) {
	ix, err := Build(exampleRecords())
	require.NoError(t, err)

	results := ix.BooksFor(CategoryPackage, []int{1, 2})
	require.Len(t, results, 2)

	require.NoError(t, results[0].Err)
	assert.Equal(t, "Pkg1", results[0].Name)
	assert.Equal(t, []string{"Book A", "Book B"}, results[0].Titles)

	require.NoError(t, results[1].Err)
	assert.Equal(t, []string{"Book C"}, results[1].Titles)
}

func TestBooksFor_WrongCategoryAndOutOfRange(t *testing.T) {
	ix, err := Build(exampleRecords())
	require.NoError(t, err)

	// ID 3 is a subject; asking for it as a package must be rejected as a
	// package lookup failure, and the valid ID after it still resolves.
	results := ix.BooksFor(CategoryPackage, []int{3, 1})
	require.Len(t, results, 2)

	var notFound *NotFoundError
	require.ErrorAs(t, results[0].Err, &notFound)
	assert.Equal(t, 3, notFound.ID)
	assert.Equal(t, CategoryPackage, notFound.Category)
	assert.Equal(t, "no package with ID = 3", results[0].Err.Error())

	require.NoError(t, results[1].Err)
	assert.Equal(t, "Pkg1", results[1].Name)

	// The symmetric rejection: a package ID is not a subject.
	subjResults := ix.BooksFor(CategorySubject, []int{1, 4})
	require.ErrorAs(t, subjResults[0].Err, &notFound)
	assert.Equal(t, CategorySubject, notFound.Category)
	require.NoError(t, subjResults[1].Err)
	assert.Equal(t, "Physics", subjResults[1].Name)

	// Out of the combined range entirely.
	for _, id := range []int{0, -1, 5} {
		res := ix.BooksFor(CategorySubject, []int{id})
		assert.Error(t, res[0].Err, "id %d", id)
	}
}

func TestBooksForTopic_Range(t *testing.T) {
	ix, err := Build(exampleRecords())
	require.NoError(t, err)

	assert.Nil(t, ix.BooksForTopic(0))
	assert.Nil(t, ix.BooksForTopic(5))
	assert.NotNil(t, ix.BooksForTopic(4))

	_, ok := ix.TopicName(0)
	assert.False(t, ok)
	name, ok := ix.TopicName(2)
	require.True(t, ok)
	assert.Equal(t, "Pkg2", name)
}

func TestSubjects_UnfilteredOrder(t *testing.T) {
	ix, err := Build([]model.RawBook{
		{Title: "B1", Package: "P", Subjects: "Zoology; Algebra; Medicine", DOI: "10.1/1"},
	})
	require.NoError(t, err)

	subjects := ix.Subjects(nil)
	require.Len(t, subjects, 3)
	assert.Equal(t, "Algebra", subjects[0].Name)
	assert.Equal(t, "Medicine", subjects[1].Name)
	assert.Equal(t, "Zoology", subjects[2].Name)

	// IDs continue after the package range.
	assert.Equal(t, 2, subjects[0].ID)
	assert.Equal(t, 4, subjects[2].ID)
}
