package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify_BasicASCII(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Air Conditioners", "air-conditioners"},
		{"foo bar baz", "foo-bar-baz"},
		{"Simple", "simple"},
		{"ALL UPPER CASE", "all-upper-case"},
		{"Category 123", "category-123"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestSlugify_Ampersand(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"TV & Home Theater", "tv-and-home-theater"},
		{"Health, Fitness & Beauty", "health-fitness-and-beauty"},
		{"Computers & Tablets", "computers-and-tablets"},
		{"A&B", "aandb"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestSlugify_WhitespaceHandling(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"leading and trailing spaces", "   hello world   ", "hello-world"},
		{"multiple spaces", "Cell  Phones", "cell-phones"},
		{"tabs and spaces", "hello\t\tworld", "hello-world"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestSlugify_SpecialCharacters(t *testing.T) {
	assert.Equal(t, "electronics", Slugify("Electronics!"))
	assert.Equal(t, "foobarbaz", Slugify("foo@bar#baz"))
	assert.Equal(t, "snake_case", Slugify("snake_case"))
}

func TestSlugify_Hyphens(t *testing.T) {
	assert.Equal(t, "test", Slugify("-test"))
	assert.Equal(t, "test", Slugify("test-"))
	assert.Equal(t, "test", Slugify("-test-"))
	assert.Equal(t, "a-b", Slugify("a---b"))
	assert.Equal(t, "a-b", Slugify("a - - b"))
}

func TestSlugify_EdgeCases(t *testing.T) {
	assert.Equal(t, "", Slugify(""))
	assert.Equal(t, "", Slugify("   "))
	assert.Equal(t, "", Slugify("!!!"))
	assert.Equal(t, "a", Slugify("a"))
	assert.Equal(t, "123", Slugify("123"))
}

func TestSlugify_Idempotent(t *testing.T) {
	inputs := []string{
		"Air Conditioners",
		"TV & Home Theater",
		"Health, Fitness & Beauty",
		"-test-",
		"already-a-slug",
		"  weird   input!! ",
	}
	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), "Slugify should be idempotent for %q", in)
	}
}

func TestProduct_Basic(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Samsung Galaxy S24", "samsung-galaxy-s24"},
		{"Test & More!", "test-more"},
		{"Hello   World", "hello-world"},
		{"4K TV (55\")", "4k-tv-55"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Product(tt.input))
		})
	}
}

func TestProduct_Truncation(t *testing.T) {
	got := Product(strings.Repeat("A", 80))
	assert.Len(t, got, 60)
	assert.Equal(t, strings.Repeat("a", 60), got)
}

func TestProduct_EdgeCases(t *testing.T) {
	assert.Equal(t, "", Product(""))
	assert.Equal(t, "", Product("!!!"))
	assert.Equal(t, "a-b", Product("a---b"))
	assert.Equal(t, "hello", Product("-hello-"))
}
