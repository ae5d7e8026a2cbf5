package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		url  string
		want Class
	}{
		{"https://theonion.com/some-article", ClassSatire},
		{"https://www.theonion.com/some-article", ClassSatire},
		{"HTTPS://WWW.THEONION.COM/article", ClassSatire},
		{"https://babylonbee.com/news/x", ClassSatire},
		{"https://reuters.com/world/story", ClassCredible},
		{"https://www.reuters.com/world/story", ClassCredible},
		{"https://bbc.co.uk/news", ClassCredible},
		{"https://someblog.example.org/post", ClassUnknown},
		{"not a url at all", ClassUnknown},
		{"", ClassUnknown},
		{"://missing-scheme", ClassUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.url), "url %q", tc.url)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, ClassSatire, Classify("https://theonion.com/x"))
		assert.Equal(t, ClassCredible, Classify("https://reuters.com/x"))
	}
}

func TestClassifyAuthor(t *testing.T) {
	cases := []struct {
		handle string
		want   Class
	}{
		{"theonion", ClassSatire},
		{"@theonion", ClassSatire},
		{"  @TheOnion  ", ClassSatire},
		{"reductress", ClassSatire},
		// First label of a satire domain also counts.
		{"waterfordwhispersnews", ClassSatire},
		{"hard-drive", ClassSatire},
		{"somerandomuser", ClassUnknown},
		{"", ClassUnknown},
		{"@", ClassUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyAuthor(tc.handle), "handle %q", tc.handle)
	}
}

func TestIsRepostDomain(t *testing.T) {
	assert.True(t, IsRepostDomain("instagram.com"))
	assert.True(t, IsRepostDomain("www.instagram.com"))
	assert.True(t, IsRepostDomain("i.imgur.com"))
	assert.True(t, IsRepostDomain("X.com"))
	assert.False(t, IsRepostDomain("nytimes.com"))
	assert.False(t, IsRepostDomain(""))
}

func TestIsOriginPlatform(t *testing.T) {
	assert.True(t, IsOriginPlatform("instagram.com"))
	assert.True(t, IsOriginPlatform("www.instagram.com"))
	assert.True(t, IsOriginPlatform("WWW.INSTAGRAM.COM"))
	assert.False(t, IsOriginPlatform("facebook.com"))
	assert.False(t, IsOriginPlatform(""))
}

func TestContainsRedFlag(t *testing.T) {
	assert.True(t, ContainsRedFlag("account was suspended last year"))
	assert.True(t, ContainsRedFlag("Known for spreading MISINFORMATION"))
	assert.True(t, ContainsRedFlag("state-backed propaganda outlet"))
	assert.False(t, ContainsRedFlag("award-winning photojournalist"))
	assert.False(t, ContainsRedFlag(""))
}
