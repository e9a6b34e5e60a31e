package entity

type BlogPost struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Content       string `json:"content"`
	Author        string `json:"author"`
	PublishedDate string `json:"published_date"`
}
