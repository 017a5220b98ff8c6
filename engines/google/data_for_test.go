package google

import "fmt"

const firstPageHTML = `<!DOCTYPE html>
<html><head><title>Google Search</title></head>
<body>
<div id="search">
  <div class="g">
    <a href="https://example.com/cat"><h3>A cat on a sofa</h3></a>
    <img id="dimg_1" src="data:image/gif;base64,R0lGODlhAQABAIAAAP///wAAACwAAAAAAQABAAACAkQBADs=">
  </div>
  <div class="g">
    <a href="//example.org/other"><h3>Another page</h3></a>
    <img id="dimg_2">
  </div>
  <div class="g">
    <h3>No link here</h3>
  </div>
</div>
<script nonce="x">(function(){var s='data:image/jpeg;base64,/9j/4AAQSkZJRg\x3d\x3d';var ii=['dimg_1'];_setImagesSrc(ii,s);})();</script>
<script>(function(){var s='data:image/png;base64,iVBORw0KGgo\x3d';var ii=['dimg_2','dimg_9'];_setImagesSrc(ii,s);})();</script>
<table class="AaVjTc"><tr>
  <td><a aria-label="Page 2" href="/search?q=cat&amp;start=10">2</a></td>
  <td><a aria-label="Page 3" href="/search?q=cat&amp;start=20">3</a></td>
</tr></table>
</body></html>`

func laterPageHTML(title string, pageLinks string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html><body>
<div id="search">
  <div class="g"><a href="https://example.com/%[1]s"><h3>%[1]s</h3></a></div>
</div>
<table><tr>%[2]s</tr></table>
</body></html>`, title, pageLinks)
}

var secondPageHTML = laterPageHTML("second",
	`<td><a aria-label="Page 1" href="/search?q=cat&amp;start=0">1</a></td><td><a aria-label="Page 3" href="/search?q=cat&amp;start=20">3</a></td>`)

var thirdPageHTML = laterPageHTML("third",
	`<td><a aria-label="Page 1" href="/search?q=cat&amp;start=0">1</a></td><td><a aria-label="Page 2" href="/search?q=cat&amp;start=10">2</a></td>`)

const unusualTrafficHTML = `<!DOCTYPE html><html><body>Our systems have detected unusual traffic from your computer network.</body></html>`

const missingContainerHTML = `<!DOCTYPE html><html><body><div id="main"></div></body></html>`
