// Package colour provides nearest named-colour lookup.
package colour

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// namedColour is one entry of the name table.
type namedColour struct {
	hex  string
	name string
}

// nameTable holds the CSS Color Module Level 4 named colours. Order matters:
// on equal distance the earlier entry wins.
var nameTable = []namedColour{
	{"#F0F8FF", "Alice Blue"},
	{"#FAEBD7", "Antique White"},
	{"#00FFFF", "Aqua"},
	{"#7FFFD4", "Aquamarine"},
	{"#F0FFFF", "Azure"},
	{"#F5F5DC", "Beige"},
	{"#FFE4C4", "Bisque"},
	{"#000000", "Black"},
	{"#FFEBCD", "Blanched Almond"},
	{"#0000FF", "Blue"},
	{"#8A2BE2", "Blue Violet"},
	{"#A52A2A", "Brown"},
	{"#DEB887", "Burly Wood"},
	{"#5F9EA0", "Cadet Blue"},
	{"#7FFF00", "Chartreuse"},
	{"#D2691E", "Chocolate"},
	{"#FF7F50", "Coral"},
	{"#6495ED", "Cornflower Blue"},
	{"#FFF8DC", "Cornsilk"},
	{"#DC143C", "Crimson"},
	{"#00008B", "Dark Blue"},
	{"#008B8B", "Dark Cyan"},
	{"#B8860B", "Dark Golden Rod"},
	{"#A9A9A9", "Dark Gray"},
	{"#006400", "Dark Green"},
	{"#BDB76B", "Dark Khaki"},
	{"#8B008B", "Dark Magenta"},
	{"#556B2F", "Dark Olive Green"},
	{"#FF8C00", "Dark Orange"},
	{"#9932CC", "Dark Orchid"},
	{"#8B0000", "Dark Red"},
	{"#E9967A", "Dark Salmon"},
	{"#8FBC8F", "Dark Sea Green"},
	{"#483D8B", "Dark Slate Blue"},
	{"#2F4F4F", "Dark Slate Gray"},
	{"#00CED1", "Dark Turquoise"},
	{"#9400D3", "Dark Violet"},
	{"#FF1493", "Deep Pink"},
	{"#00BFFF", "Deep Sky Blue"},
	{"#696969", "Dim Gray"},
	{"#1E90FF", "Dodger Blue"},
	{"#B22222", "Fire Brick"},
	{"#FFFAF0", "Floral White"},
	{"#228B22", "Forest Green"},
	{"#DCDCDC", "Gainsboro"},
	{"#F8F8FF", "Ghost White"},
	{"#FFD700", "Gold"},
	{"#DAA520", "Golden Rod"},
	{"#808080", "Gray"},
	{"#008000", "Green"},
	{"#ADFF2F", "Green Yellow"},
	{"#F0FFF0", "Honey Dew"},
	{"#FF69B4", "Hot Pink"},
	{"#CD5C5C", "Indian Red"},
	{"#4B0082", "Indigo"},
	{"#FFFFF0", "Ivory"},
	{"#F0E68C", "Khaki"},
	{"#E6E6FA", "Lavender"},
	{"#FFF0F5", "Lavender Blush"},
	{"#7CFC00", "Lawn Green"},
	{"#FFFACD", "Lemon Chiffon"},
	{"#ADD8E6", "Light Blue"},
	{"#F08080", "Light Coral"},
	{"#E0FFFF", "Light Cyan"},
	{"#FAFAD2", "Light Golden Rod Yellow"},
	{"#D3D3D3", "Light Gray"},
	{"#90EE90", "Light Green"},
	{"#FFB6C1", "Light Pink"},
	{"#FFA07A", "Light Salmon"},
	{"#20B2AA", "Light Sea Green"},
	{"#87CEFA", "Light Sky Blue"},
	{"#778899", "Light Slate Gray"},
	{"#B0C4DE", "Light Steel Blue"},
	{"#FFFFE0", "Light Yellow"},
	{"#00FF00", "Lime"},
	{"#32CD32", "Lime Green"},
	{"#FAF0E6", "Linen"},
	{"#800000", "Maroon"},
	{"#66CDAA", "Medium Aqua Marine"},
	{"#0000CD", "Medium Blue"},
	{"#BA55D3", "Medium Orchid"},
	{"#9370DB", "Medium Purple"},
	{"#3CB371", "Medium Sea Green"},
	{"#7B68EE", "Medium Slate Blue"},
	{"#00FA9A", "Medium Spring Green"},
	{"#48D1CC", "Medium Turquoise"},
	{"#C71585", "Medium Violet Red"},
	{"#191970", "Midnight Blue"},
	{"#F5FFFA", "Mint Cream"},
	{"#FFE4E1", "Misty Rose"},
	{"#FFE4B5", "Moccasin"},
	{"#FFDEAD", "Navajo White"},
	{"#000080", "Navy"},
	{"#FDF5E6", "Old Lace"},
	{"#808000", "Olive"},
	{"#6B8E23", "Olive Drab"},
	{"#FFA500", "Orange"},
	{"#FF4500", "Orange Red"},
	{"#DA70D6", "Orchid"},
	{"#EEE8AA", "Pale Golden Rod"},
	{"#98FB98", "Pale Green"},
	{"#AFEEEE", "Pale Turquoise"},
	{"#DB7093", "Pale Violet Red"},
	{"#FFEFD5", "Papaya Whip"},
	{"#FFDAB9", "Peach Puff"},
	{"#CD853F", "Peru"},
	{"#FFC0CB", "Pink"},
	{"#DDA0DD", "Plum"},
	{"#B0E0E6", "Powder Blue"},
	{"#800080", "Purple"},
	{"#663399", "Rebecca Purple"},
	{"#FF0000", "Red"},
	{"#BC8F8F", "Rosy Brown"},
	{"#4169E1", "Royal Blue"},
	{"#8B4513", "Saddle Brown"},
	{"#FA8072", "Salmon"},
	{"#F4A460", "Sandy Brown"},
	{"#2E8B57", "Sea Green"},
	{"#FFF5EE", "Sea Shell"},
	{"#A0522D", "Sienna"},
	{"#C0C0C0", "Silver"},
	{"#87CEEB", "Sky Blue"},
	{"#6A5ACD", "Slate Blue"},
	{"#708090", "Slate Gray"},
	{"#FFFAFA", "Snow"},
	{"#00FF7F", "Spring Green"},
	{"#4682B4", "Steel Blue"},
	{"#D2B48C", "Tan"},
	{"#008080", "Teal"},
	{"#D8BFD8", "Thistle"},
	{"#FF6347", "Tomato"},
	{"#40E0D0", "Turquoise"},
	{"#EE82EE", "Violet"},
	{"#F5DEB3", "Wheat"},
	{"#FFFFFF", "White"},
	{"#F5F5F5", "White Smoke"},
	{"#FFFF00", "Yellow"},
	{"#9ACD32", "Yellow Green"},
}

// namedLab is a name table entry with its precomputed colorful value.
type namedLab struct {
	rgb    RGB
	colour colorful.Color
	name   string
}

var names = buildNames()

func buildNames() []namedLab {
	out := make([]namedLab, 0, len(nameTable))
	for _, n := range nameTable {
		rgb, err := ParseHex(n.hex)
		if err != nil {
			panic(fmt.Sprintf("colour: bad name table entry %q: %v", n.hex, err))
		}
		out = append(out, namedLab{rgb: rgb, colour: toColorful(rgb), name: n.name})
	}
	return out
}

func toColorful(rgb RGB) colorful.Color {
	return colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}
}

// Name returns the label of the closest named colour in CIE L*a*b* space.
func (rgb RGB) Name() string {
	target := toColorful(rgb)
	best := 0
	bestDist := -1.0
	for i, n := range names {
		if n.rgb == rgb {
			return n.name
		}
		d := target.DistanceLab(n.colour)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return names[best].name
}

// NearestName returns the closest named colour for a hex string.
func NearestName(hex string) (string, error) {
	rgb, err := ParseHex(hex)
	if err != nil {
		return "", err
	}
	return rgb.Name(), nil
}
