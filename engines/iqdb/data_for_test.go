package iqdb

const oneMatchHTML = `<!DOCTYPE html>
<html><head><title>Multi-service image search - Search results</title></head>
<body>
<div id="pages" class="pages">
  <div><table>
    <tr><th>Your image</th></tr>
    <tr><td class="image"><img src="/thu/thu_e6b32a0d.jpg" alt="uploaded"></td></tr>
    <tr><td>1200×1600 JPEG</td></tr>
  </table></div>
  <div><table>
    <tr><th>No relevant matches</th></tr>
  </table></div>
  <div><table>
    <tr><th>Best match</th></tr>
    <tr><td class="image"><a href="//danbooru.donmai.us/posts/4242"><img src="/danbooru/a/b/abcdef.jpg" alt="Rating: s"></a></td></tr>
    <tr><td><img class="service-icon" src="/icon/danbooru.ico"> Danbooru</td></tr>
    <tr><td>1200×1600 [Safe]</td></tr>
    <tr><td>95% similarity</td></tr>
  </table></div>
</div>
</body></html>`

const multipleMatchesHTML = `<!DOCTYPE html>
<html><body>
<div id="pages">
  <div><table><tr><th>Your image</th></tr><tr><td><img src="/thu/x.jpg"></td></tr></table></div>
  <div><table>
    <tr><th>Best match</th></tr>
    <tr><td><a href="https://yande.re/post/show/1"><img src="/moe/1.jpg"></a></td></tr>
    <tr><td>yande.re</td></tr>
    <tr><td>800×600 [Explicit]</td></tr>
    <tr><td>91% similarity</td></tr>
  </table></div>
  <div><table>
    <tr><td><a href="https://gelbooru.com/index.php?id=2"><img src="/gel/2.jpg"></a></td></tr>
    <tr><td>Gelbooru</td></tr>
    <tr><td>640×480</td></tr>
    <tr><td>40% similarity</td></tr>
  </table></div>
  <div><table>
    <tr><th>Possible match</th></tr>
    <tr><td><a href="https://broken.example/3"><img src="/x/3.jpg"></a></td></tr>
  </table></div>
</div>
</body></html>`

const emptyPagesHTML = `<!DOCTYPE html>
<html><body><div id="pages"><div><table><tr><th>Your image</th></tr></table></div></div></body></html>`

const unexpectedHTML = `<!DOCTYPE html><html><body><h1>Server busy</h1></body></html>`
