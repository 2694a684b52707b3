package catalog

// Item is one catalog entry.
type Item struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genre       []string `json:"genre"`
	Cast        []string `json:"cast"`
	Director    string   `json:"director"`
	Year        int      `json:"year"`
	Rating      string   `json:"rating"`
	Duration    string   `json:"duration"`
	IMDBRating  float64  `json:"imdbRating"`
	Quality     []string `json:"quality"`
	Poster      string   `json:"poster"`
	Backdrop    string   `json:"backdrop"`
	VideoURL    string   `json:"videoUrl"`
}

func (it Item) clone() Item {
	it.Genre = cloneStrings(it.Genre)
	it.Cast = cloneStrings(it.Cast)
	it.Quality = cloneStrings(it.Quality)
	return it
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Dataset is the on-disk shape of a catalog.
type Dataset struct {
	Items      []Item           `json:"items"`
	Categories map[string][]int `json:"categories"`
}

// Row is one home-page row: a category key and its display title.
type Row struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

const FeaturedCategory = "featured"

var defaultRows = []Row{
	{Key: "trending", Title: "Trending Now"},
	{Key: "netflix_originals", Title: "Netflix Originals"},
	{Key: "popular", Title: "Popular on Netflix"},
	{Key: "action", Title: "Action & Adventure"},
	{Key: "drama", Title: "Dramas"},
	{Key: "sci-fi", Title: "Sci-Fi Movies"},
	{Key: "anime", Title: "Anime Series"},
	{Key: "crime", Title: "Crime TV Shows"},
	{Key: "thriller", Title: "Thrillers"},
	{Key: "international", Title: "International Movies"},
	{Key: "fantasy", Title: "Fantasy"},
}
