// Package fixtures provides captured-shape post pages and payloads for
// extractor and pipeline tests.
package fixtures

// FullPostPage is a crawler-rendered page with every optional region:
// verified author, two photos, a community note and all five counters.
func FullPostPage() string {
	return `
<!DOCTYPE html>
<html>
<head><title>Post</title></head>
<body>
<article data-testid="tweet">
    <div data-testid="User-Name">
        <div><span>Jack Example</span></div>
        <div><a href="/jack/status/20">@jack</a></div>
        <svg data-testid="icon-verified"></svg>
    </div>
    <div data-testid="tweetText" dir="ltr">just setting up my twttr</div>
    <div data-testid="tweetPhoto">
        <div class="overlay"></div>
        <img src="https://pbs.twimg.com/media/AAA?format=jpg&amp;name=small"/>
    </div>
    <div data-testid="tweetPhoto">
        <div class="overlay"></div>
        <img src="https://pbs.twimg.com/media/BBB?format=png&amp;name=small"/>
    </div>
    <div data-testid="birdwatch-pivot">
        <span>Readers added context</span>
        <span>they thought people might want to know</span>
        <div>This post is the first one ever written.</div>
    </div>
    <a href="/jack/status/20"><time datetime="2006-03-21T20:50:14Z">8:50 PM · Mar 21, 2006</time></a>
    <div data-testid="app-text-transition-container"><span>1.2M</span></div>
    <div data-testid="app-text-transition-container"><span>120K</span></div>
    <div data-testid="app-text-transition-container"><span>10K</span></div>
    <div data-testid="app-text-transition-container"><span>180K</span></div>
    <div data-testid="app-text-transition-container"><span>3,456</span></div>
</article>
</body>
</html>
`
}

// MinimalPostPage has only the author and body; every optional region is
// missing.
func MinimalPostPage() string {
	return `
<!DOCTYPE html>
<html>
<body>
<article data-testid="tweet">
    <div data-testid="User-Name">
        <div><span>Plain User</span></div>
        <div><span>plain</span></div>
    </div>
    <div data-testid="tweetText" dir="ltr">nothing else here</div>
</article>
</body>
</html>
`
}

// PartialStatsPage exposes only the first two counters.
func PartialStatsPage() string {
	return `
<!DOCTYPE html>
<html>
<body>
<article data-testid="tweet">
    <div data-testid="User-Name"><div>A</div><div>@a</div></div>
    <div data-testid="tweetText">counters cut off</div>
    <div data-testid="app-text-transition-container"><span>42</span></div>
    <div data-testid="app-text-transition-container"><span>7</span></div>
</article>
</body>
</html>
`
}

// SinglePhotoPage carries one photo and no other media.
func SinglePhotoPage() string {
	return `
<!DOCTYPE html>
<html>
<body>
<article data-testid="tweet">
    <div data-testid="User-Name"><div>Photographer</div><div>@shots</div></div>
    <div data-testid="tweetText">sunset</div>
    <div data-testid="tweetPhoto"><img src="https://pbs.twimg.com/media/SUN?format=jpg"/></div>
</article>
</body>
</html>
`
}

// QuotedPostPage embeds a quoted post, so two tweetText regions appear.
// The first belongs to the post itself.
func QuotedPostPage() string {
	return `
<!DOCTYPE html>
<html>
<body>
<article data-testid="tweet">
    <div data-testid="User-Name"><div>Quoter</div><div>@quoter</div></div>
    <div data-testid="tweetText">look at this</div>
    <div role="link">
        <div data-testid="User-Name"><div>Quoted</div><div>@quoted</div></div>
        <div data-testid="tweetText">the quoted words</div>
    </div>
</article>
</body>
</html>
`
}

// FullPayload is a syndication payload with photos, a video and a
// community note whose subtitle uses the object form.
func FullPayload() string {
	return `{
  "id_str": "20",
  "text": "just setting up my twttr",
  "created_at": "2006-03-21T20:50:14.000Z",
  "user": {
    "name": "Jack Example",
    "screen_name": "jack",
    "verified": true,
    "is_blue_verified": true,
    "verified_type": ""
  },
  "photos": [
    {"url": "https://pbs.twimg.com/media/AAA.jpg", "width": 100, "height": 100},
    {"url": "https://pbs.twimg.com/media/BBB.jpg", "width": 100, "height": 100}
  ],
  "video": {
    "poster": "https://pbs.twimg.com/poster.jpg",
    "variants": [
      {"type": "video/mp4", "src": "https://video.twimg.com/vid/720.mp4"},
      {"type": "application/x-mpegURL", "src": "https://video.twimg.com/vid/pl.m3u8"}
    ]
  },
  "birdwatch_pivot": {
    "title": "Readers added context",
    "subtitle": {"text": "This post is the first one ever written."}
  }
}`
}

// TextOnlyPayload has no media and no community note.
func TextOnlyPayload() string {
	return `{
  "id_str": "21",
  "text": "hello",
  "created_at": "2023-05-11T18:04:09.000Z",
  "user": {"name": "Plain User", "screen_name": "plain"}
}`
}
