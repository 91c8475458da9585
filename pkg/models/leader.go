package models

// Leader represents an executive on the leadership team
type Leader struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Title    string `json:"title" yaml:"title"`
	Bio      string `json:"bio" yaml:"bio"`
	ImageURL string `json:"image_url" yaml:"image_url"`
	ImageAlt string `json:"image_alt" yaml:"image_alt"`
	LinkedIn string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	Featured bool   `json:"featured" yaml:"featured"`
	Order    int    `json:"order" yaml:"order"`
}
