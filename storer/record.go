package storer

type Record struct {
	Id       string
	Metadata map[string]any
	Score    float32
}
