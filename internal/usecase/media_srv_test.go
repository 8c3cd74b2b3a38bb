package usecase

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"media-catalog/internal/cache"
	"media-catalog/internal/data/entity"
	"media-catalog/internal/dto/request"

	"github.com/google/uuid"
)

func newTestMediaService(t *testing.T) (*mediaService, *fakes) {
	t.Helper()
	repo, f := newFakeRepository()
	svc := NewMediaService(repo, cache.New(time.Minute), testLog).(*mediaService)
	return svc, f
}

func TestGetByGenreOnlyReturnsMatchingGenre(t *testing.T) {
	svc, f := newTestMediaService(t)
	f.books.add("Dune", "Frank Herbert", "Science Fiction", "Classic")
	f.books.add("Emma", "Jane Austen", "Romance")
	f.books.add("Lower", "Someone", "science fiction")
	f.movies.add("Alien", "Ridley Scott", "Science Fiction", "Horror")
	f.movies.add("Heat", "Michael Mann", "Crime")

	books, err := svc.GetBooksByGenre(context.Background(), "Science Fiction")
	if err != nil {
		t.Fatalf("books by genre: %v", err)
	}
	if len(books) != 1 || books[0].Title != "Dune" {
		t.Fatalf("got %+v, want only Dune", books)
	}

	movies, err := svc.GetMoviesByGenre(context.Background(), "Science Fiction")
	if err != nil {
		t.Fatalf("movies by genre: %v", err)
	}
	for _, m := range movies {
		found := false
		for _, g := range m.Genres {
			found = found || g == "Science Fiction"
		}
		if !found {
			t.Errorf("%s does not carry the requested genre: %v", m.Title, m.Genres)
		}
		if m.Type != entity.MediaTypeMovie {
			t.Errorf("%s tagged %q, want movie", m.Title, m.Type)
		}
	}
	if len(movies) != 1 {
		t.Fatalf("got %d movies, want 1", len(movies))
	}
}

func TestSearchMediaFindsMovieByTitle(t *testing.T) {
	svc, f := newTestMediaService(t)
	f.books.add("Emma", "Jane Austen")
	f.movies.add("Dune", "Denis Villeneuve", "Science Fiction")

	got, err := svc.SearchMedia(context.Background(), "dune")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
	if got[0].Title != "Dune" || got[0].Type != entity.MediaTypeMovie {
		t.Fatalf("got %+v, want movie Dune", got[0])
	}
	if got[0].Creator != "Denis Villeneuve" {
		t.Fatalf("creator = %q, want the director", got[0].Creator)
	}
}

func TestSearchMediaBooksBeforeMovies(t *testing.T) {
	svc, f := newTestMediaService(t)
	f.movies.add("Dune", "Denis Villeneuve")
	f.books.add("Dune", "Frank Herbert")

	got, err := svc.SearchMedia(context.Background(), "DUNE")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 || got[0].Type != entity.MediaTypeBook || got[1].Type != entity.MediaTypeMovie {
		t.Fatalf("unexpected order %+v", got)
	}
}

func TestSearchMediaEmptyQuery(t *testing.T) {
	svc, f := newTestMediaService(t)
	f.books.add("Emma", "Jane Austen")

	got, err := svc.SearchMedia(context.Background(), "   ")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("got %v, want empty non-nil list", got)
	}
}

func TestFeaturedMediaPicksAtMostThree(t *testing.T) {
	svc, f := newTestMediaService(t)
	svc.shuffle = func(int, func(i, j int)) {}

	f.books.add("One", "A")
	f.books.add("Two", "B")

	got, err := svc.GetFeaturedMedia(context.Background())
	if err != nil {
		t.Fatalf("featured: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("small catalog: got %d, want 2", len(got))
	}

	f.movies.add("Three", "C")
	f.movies.add("Four", "D")
	svc.cache.Invalidate("books", "movies")

	got, err = svc.GetFeaturedMedia(context.Background())
	if err != nil {
		t.Fatalf("featured: %v", err)
	}
	if len(got) != featuredCount {
		t.Fatalf("got %d, want %d", len(got), featuredCount)
	}
}

func TestFeaturedShuffleLeavesCachedListIntact(t *testing.T) {
	svc, f := newTestMediaService(t)
	reverse := func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}
	svc.shuffle = reverse

	f.books.add("Old", "A")
	time.Sleep(time.Millisecond)
	f.books.add("New", "B")

	before, _ := svc.GetBooks(context.Background())
	if _, err := svc.GetFeaturedMedia(context.Background()); err != nil {
		t.Fatalf("featured: %v", err)
	}
	after, _ := svc.GetBooks(context.Background())

	if before[0].Title != after[0].Title {
		t.Fatalf("featured shuffle reordered the cached list: %s vs %s", before[0].Title, after[0].Title)
	}
}

func TestBookListIsCachedUntilWrite(t *testing.T) {
	svc, f := newTestMediaService(t)
	f.books.add("Emma", "Jane Austen")

	for i := 0; i < 3; i++ {
		if _, err := svc.GetBooks(context.Background()); err != nil {
			t.Fatalf("get books: %v", err)
		}
	}
	if f.books.findAllCalls != 1 {
		t.Fatalf("FindAll called %d times, want 1", f.books.findAllCalls)
	}

	if _, err := svc.AddBook(context.Background(), &request.BookRequest{Title: "Persuasion", Author: "Jane Austen"}); err != nil {
		t.Fatalf("add book: %v", err)
	}

	got, err := svc.GetBooks(context.Background())
	if err != nil {
		t.Fatalf("get books: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d books after add, want 2", len(got))
	}
	if f.books.findAllCalls != 2 {
		t.Fatalf("FindAll called %d times, want 2", f.books.findAllCalls)
	}
}

func TestBrowseFiltersSearchByType(t *testing.T) {
	svc, f := newTestMediaService(t)
	f.books.add("Dune", "Frank Herbert")
	f.movies.add("Dune", "Denis Villeneuve")

	got, err := svc.Browse(context.Background(), &request.BrowseRequest{Type: "book", Search: "dune"})
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if len(got) != 1 || got[0].Type != entity.MediaTypeBook {
		t.Fatalf("got %+v, want only the book", got)
	}

	got, err = svc.Browse(context.Background(), &request.BrowseRequest{})
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("browse all: got %d, want 2", len(got))
	}

	_, err = svc.Browse(context.Background(), &request.BrowseRequest{Type: "podcast"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestAddBookValidation(t *testing.T) {
	svc, _ := newTestMediaService(t)

	_, err := svc.AddBook(context.Background(), &request.BookRequest{Title: ""})
	var svcErr *Error
	if !errors.As(err, &svcErr) || !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if _, ok := svcErr.Fields["Author"]; !ok {
		t.Fatalf("missing Author field error: %v", svcErr.Fields)
	}
}

func TestAddBookNormalizesGenres(t *testing.T) {
	svc, _ := newTestMediaService(t)

	got, err := svc.AddBook(context.Background(), &request.BookRequest{
		Title:  "Dune",
		Author: "Frank Herbert",
		Genres: []string{" Science Fiction", "Science Fiction", "Classic"},
	})
	if err != nil {
		t.Fatalf("add book: %v", err)
	}
	if len(got.Genres) != 2 || got.Genres[0] != "Science Fiction" || got.Genres[1] != "Classic" {
		t.Fatalf("genres = %v", got.Genres)
	}

	empty, err := svc.AddBook(context.Background(), &request.BookRequest{Title: "Emma", Author: "Jane Austen"})
	if err != nil {
		t.Fatalf("add book: %v", err)
	}
	if empty.Genres == nil {
		t.Fatal("genres must not be nil")
	}
}

func TestDeleteBookRemovesReviews(t *testing.T) {
	svc, f := newTestMediaService(t)
	book := f.books.add("Dune", "Frank Herbert")
	user := f.profiles.add("reader")
	f.reviews.Create(context.Background(), &entity.Review{
		Base:      entity.Base{ID: uuid.New()},
		UserID:    user.ID,
		MediaID:   book.ID,
		MediaType: entity.MediaTypeBook,
		Rating:    4,
	})

	if err := svc.DeleteBook(context.Background(), book.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n, _ := f.reviews.CountByMedia(context.Background(), entity.MediaTypeBook, book.ID); n != 0 {
		t.Fatalf("%d reviews left behind", n)
	}

	err := svc.DeleteBook(context.Background(), book.ID.String())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want not found", err)
	}
}

func TestGetMediaByIDIncludesStats(t *testing.T) {
	svc, f := newTestMediaService(t)
	movie := f.movies.add("Heat", "Michael Mann")
	for _, rating := range []int{4, 5} {
		f.reviews.Create(context.Background(), &entity.Review{
			Base:      entity.Base{ID: uuid.New()},
			UserID:    uuid.New(),
			MediaID:   movie.ID,
			MediaType: entity.MediaTypeMovie,
			Rating:    rating,
		})
	}

	got, err := svc.GetMediaByID(context.Background(), entity.MediaTypeMovie, movie.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ReviewStats.ReviewCount != 2 || got.ReviewStats.AverageRating != 4.5 {
		t.Fatalf("stats = %+v", got.ReviewStats)
	}

	// a movie id is not a book id
	_, err = svc.GetMediaByID(context.Background(), entity.MediaTypeBook, movie.ID.String())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestSimilarMediaSharesFirstGenre(t *testing.T) {
	svc, f := newTestMediaService(t)
	dune := f.books.add("Dune", "Frank Herbert", "Science Fiction", "Classic")
	f.books.add("Hyperion", "Dan Simmons", "Science Fiction")
	f.books.add("Emma", "Jane Austen", "Classic")
	f.movies.add("Alien", "Ridley Scott", "Science Fiction")

	similar, err := svc.GetSimilarMedia(context.Background(), entity.MediaTypeBook, dune.ID.String())
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	if len(similar) != 1 || similar[0].Title != "Hyperion" {
		t.Fatalf("got %+v, want only Hyperion", similar)
	}
}

func TestSimilarMediaWithoutGenres(t *testing.T) {
	svc, f := newTestMediaService(t)
	heat := f.movies.add("Heat", "Michael Mann")

	similar, err := svc.GetSimilarMedia(context.Background(), entity.MediaTypeMovie, heat.ID.String())
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	if similar == nil || len(similar) != 0 {
		t.Fatalf("got %#v, want empty list", similar)
	}
}

func TestGenresCountsBothTypes(t *testing.T) {
	svc, f := newTestMediaService(t)
	f.books.add("Dune", "Frank Herbert", "Science Fiction", "Classic")
	f.movies.add("Alien", "Ridley Scott", "Science Fiction")
	f.movies.add("Heat", "Michael Mann", "Crime")

	genres, err := svc.GetGenres(context.Background())
	if err != nil {
		t.Fatalf("genres: %v", err)
	}

	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	if want := []string{"Classic", "Crime", "Science Fiction"}; !slices.Equal(names, want) {
		t.Fatalf("names = %v, want %v", names, want)
	}

	scifi := genres[2]
	if scifi.BookCount != 1 || scifi.MovieCount != 1 || scifi.Total != 2 {
		t.Fatalf("science fiction = %+v", scifi)
	}
}

func TestGenreFilterRejectsOversizedValue(t *testing.T) {
	svc, f := newTestMediaService(t)
	f.books.add("Dune", "Frank Herbert", "Science Fiction")

	long := strings.Repeat("x", 51)
	if _, err := svc.GetBooksByGenre(context.Background(), long); !errors.Is(err, ErrValidation) {
		t.Fatalf("books: err = %v, want validation", err)
	}
	if _, err := svc.GetMoviesByGenre(context.Background(), long); !errors.Is(err, ErrValidation) {
		t.Fatalf("movies: err = %v, want validation", err)
	}
	if n := svc.cache.Len(); n != 0 {
		t.Fatalf("rejected genre reached the cache, Len = %d", n)
	}

	if _, err := svc.GetBooksByGenre(context.Background(), strings.Repeat("x", 50)); err != nil {
		t.Fatalf("50 chars: %v", err)
	}
}
