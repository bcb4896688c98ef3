// Package icon renders UI symbols in the variant chosen by the user.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares.
package icon

import (
	"github.com/spf13/viper"
	"github.com/swapfs/swapfs/key"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns the supported icon variants.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon identifies a UI symbol.
type Icon int

const (
	Success Icon = iota + 1
	Fail
	Progress
	Mark
	Cross
	Folder
	File
	Symlink
	Script
	Journal
	Memory
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

var icons = map[Icon]*iconDef{
	Success:  {emoji: "🎉", nerd: "", plain: "OK", kaomoji: "(ᵔ◡ᵔ)", squares: "▣"},
	Fail:     {emoji: "💀", nerd: "", plain: "ERR", kaomoji: "(╯°□°）╯︵ ┻━┻", squares: "▬"},
	Progress: {emoji: "⏳", nerd: "", plain: "...", kaomoji: "(・_・ヾ", squares: "▧"},
	Mark:     {emoji: "✅", nerd: "", plain: "+", kaomoji: "(◕‿◕)", squares: "■"},
	Cross:    {emoji: "❌", nerd: "", plain: "-", kaomoji: "(×_×)", squares: "□"},
	Folder:   {emoji: "📁", nerd: "", plain: "d", kaomoji: "[ ]", squares: "▦"},
	File:     {emoji: "📄", nerd: "", plain: "f", kaomoji: "(¬‿¬)", squares: "▤"},
	Symlink:  {emoji: "🔗", nerd: "", plain: "l", kaomoji: "(っ˘ω˘ς)", squares: "▥"},
	Script:   {emoji: "🌙", nerd: "", plain: "lua", kaomoji: "(◍•ᴗ•◍)", squares: "▨"},
	Journal:  {emoji: "📓", nerd: "", plain: "log", kaomoji: "φ(．．)", squares: "▩"},
	Memory:   {emoji: "🧠", nerd: "", plain: "mem", kaomoji: "(・∀・)", squares: "▪"},
}

// Get returns the representation in the configured variant.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Get returns the rendered icon, or an empty string for an unknown icon.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}

	return def.Get()
}
