package typechart

// DefaultColor is used for categories without a dedicated display color.
const DefaultColor = "#808080"

// typeColors holds the conventional display color for each category.
var typeColors = map[string]string{
	"normal":   "#A8A878",
	"fighting": "#C03028",
	"flying":   "#A890F0",
	"poison":   "#A040A0",
	"ground":   "#E0C068",
	"rock":     "#B8A038",
	"bug":      "#A8B820",
	"ghost":    "#705898",
	"steel":    "#B8B8D0",
	"fire":     "#F08030",
	"water":    "#6890F0",
	"grass":    "#78C850",
	"electric": "#F8D030",
	"psychic":  "#F85888",
	"ice":      "#98D8D8",
	"dragon":   "#7038F8",
	"dark":     "#705848",
	"fairy":    "#EE99AC",
}

// Color returns the display color for a category as a hex string.
func Color(t string) string {
	if c, ok := typeColors[t]; ok {
		return c
	}
	return DefaultColor
}
