package response

// GenreResponse is one entry of the catalog-wide genre list
type GenreResponse struct {
	Name       string `json:"name"`
	BookCount  int    `json:"book_count"`
	MovieCount int    `json:"movie_count"`
	Total      int    `json:"total"`
}
