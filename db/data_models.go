package db

type Post struct {
	Id     int64  `db:"id" json:"id"`
	Poster int64  `db:"poster" json:"poster"`
	Title  string `db:"title" json:"title"`
	Body   string `db:"body" json:"body"`
}
