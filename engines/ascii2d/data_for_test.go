package ascii2d

const colorResultsHTML = `<!DOCTYPE html>
<html>
<head><title>二次元画像詳細検索</title></head>
<body>
<div class="container">
  <div class="row item-box">
    <div class="col-xs-12 col-sm-12 col-md-4 col-xl-4 text-xs-center image-box">
      <img src="/thumbnail/a/b/c/d/query.jpg" alt="query">
    </div>
    <div class="col-xs-12 col-sm-12 col-md-8 col-xl-8 info-box">
      <div class="hash">abc123</div>
      <small class="text-muted">1200x1600 JPEG 200.1KB</small>
      <div class="detail-box gray-link"></div>
    </div>
  </div>
  <div class="row item-box">
    <div class="image-box"><img src="/thumbnail/1/2/3/4/first.jpg" alt=""></div>
    <div class="info-box">
      <div class="hash">f00d</div>
      <div class="detail-box gray-link">
        <h6>
          <a href="https://www.pixiv.net/users/42">Some Artist</a>
          <a href="https://www.pixiv.net/artworks/1001">Sunset Study</a>
        </h6>
      </div>
    </div>
  </div>
  <div class="row item-box">
    <div class="image-box"><img src="//cdn.example.com/second.jpg" alt=""></div>
    <div class="info-box">
      <div class="hash">beef</div>
      <div class="detail-box gray-link">
        <h6><a href="//twitter.com/other">Other Artist</a><a href="//twitter.com/other/status/7">Tweet</a></h6>
      </div>
    </div>
  </div>
  <div class="row item-box">
    <div class="info-box">
      <div class="hash">cafe</div>
      <div class="detail-box gray-link"><h6><a href="https://example.com/only-author">Lonely</a></h6></div>
    </div>
  </div>
  <div class="row item-box">
    <div class="info-box"><div class="hash">dead</div></div>
  </div>
  <div class="detail-link">
    <a href="/search/bovw/abc123">特徴検索</a>
  </div>
</div>
</body>
</html>`

const colorResultsWithoutFeatureLinkHTML = `<!DOCTYPE html>
<html><body>
  <div class="row item-box">
    <div class="image-box"><img src="/thumbnail/x.jpg"></div>
    <div class="hash">f00d</div>
    <div class="detail-box"><h6><a href="https://www.pixiv.net/users/42">Some Artist</a><a href="https://www.pixiv.net/artworks/1001">Sunset Study</a></h6></div>
  </div>
</body></html>`

const featureResultsHTML = `<!DOCTYPE html>
<html><body>
  <div class="row item-box">
    <div class="image-box"><img src="/thumbnail/query.jpg"></div>
    <div class="hash">abc123</div>
    <div class="detail-box"></div>
  </div>
  <div class="row item-box">
    <div class="image-box"><img src="/thumbnail/feature.jpg"></div>
    <div class="hash">1234</div>
    <div class="detail-box"><h6><a href="https://www.pixiv.net/users/9">Feature Artist</a><a href="https://www.pixiv.net/artworks/9">Feature Work</a></h6></div>
  </div>
</body></html>`

const unexpectedHTML = `<!DOCTYPE html><html><body><p>maintenance</p></body></html>`

const challengeHTML = `<!DOCTYPE html><html><head><title>Just a moment...</title></head><body>checking your browser</body></html>`
