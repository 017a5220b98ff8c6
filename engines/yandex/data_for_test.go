package yandex

const sitesHTML = `<!DOCTYPE html>
<html><body>
<div class="Root" id="ImagesApp-abc"></div>
<div class="Root" id="CbirSites_infinite-xyz" data-state='{"sites":[
  {"url":"https://www.pixiv.net/artworks/1001","title":"Sunset Study","domain":"www.pixiv.net","description":"illustration","thumb":{"url":"//avatars.mds.yandex.net/i?id=1","width":240,"height":320},"originalImage":{"url":"https://i.pximg.net/1001.jpg","width":1200,"height":1600}},
  {"url":"","title":"No link","domain":"broken.example"},
  {"url":"https://blog.example.com/post","title":"Blog post","domain":"blog.example.com","thumb":{"url":"https://avatars.mds.yandex.net/i?id=2"}},
  {"url":"https://odd.example.com/a","title":"Fractional","domain":"odd.example.com","originalImage":{"width":800.5,"height":600}},
  {"url":"https://odd.example.com/b","title":"Out of range","domain":"odd.example.com","originalImage":{"width":-1,"height":4294967296}}
]}'></div>
</body></html>`

const noSitesHTML = `<!DOCTYPE html>
<html><body><div class="Root" id="CbirSites_infinite-1" data-state='{"pager":{}}'></div></body></html>`

const invalidStateHTML = `<!DOCTYPE html>
<html><body><div class="Root" id="CbirSites_infinite-1" data-state='{"sites":[{"url":'></div></body></html>`

const missingContainerHTML = `<!DOCTYPE html><html><body><div class="Root" id="Other"></div></body></html>`

const maintenanceHTML = `<!DOCTYPE html><html><body><h1>The service is under construction</h1></body></html>`
