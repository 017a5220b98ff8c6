package googlelens

const withBestMatchJSON = `[[null,[null,null,null,null,null,null,null,null,[null,null,null,null,null,null,null,null,null,null,null,null,[[["Best Title",null,[["https://thumb.example.com/best.jpg",null,null,null,"https://example.com/best"]]]]]]]],[null,[null,null,null,null,null,null,null,null,[null,null,null,null,null,null,null,null,[[null,null,null,null,null,null,null,null,null,null,null,null,[[["https://thumb.example.com/v1.jpg",null,null,null,null,null,null,[null,"$1,299.50",null,null,null,"USD"]],0.87,null,"Visual One",null,"https://shop.example.com/v1",null,null,null,null,null,null,null,null,"shop.example.com"],[["https://thumb.example.com/v2.jpg"],0.2,null,"Visual Two",null,"//blog.example.com/v2",null,null,null,null,null,null,null,null,"blog.example.com"]]]]]]]]`

const withoutBestMatchItem = `[null,[null,null,null,null,null,null,null,null,[null,null,null,null,null,null,null,null,[[null,null,null,null,null,null,null,null,null,null,null,null,[[["https://thumb.example.com/v1.jpg",null,null,null,null,null,null,[null,"$1,299.50",null,null,null,"USD"]],0.87,null,"Visual One",null,"https://shop.example.com/v1",null,null,null,null,null,null,null,null,"shop.example.com"]]]]]]]`

const initDataCallbackHTML = `<!DOCTYPE html><html><head>
<script nonce="a">window.WIZ_global_data = {"x":1};</script>
<script nonce="b">AF_initDataCallback({key: 'ds:0', hash: '1', data:` + withBestMatchJSON + `, sideChannel: {}});</script>
</head><body><div id="yDmH0d"></div></body></html>`

const varAssignmentHTML = `<!DOCTYPE html><html><head>
<script nonce="c">(function(){var m={"0":` + withoutBestMatchItem + `};var a=m;window.W_jd=a;})();</script>
</head><body></body></html>`

const bracketOnlyHTML = `<!DOCTYPE html><html><head>
<script>AF_initDataCallback([["ignored",1]]);</script>
</head><body></body></html>`

const truncatedJSONHTML = `<!DOCTYPE html><html><head>
<script nonce="d">AF_initDataCallback({key: 'ds:1', hash: '2', data:[[null,[null,"trunc", sideChannel: {}});</script>
</head><body></body></html>`

const noScriptHTML = `<!DOCTYPE html><html><head><script>var x = 1;</script></head><body></body></html>`

const unusualTrafficHTML = `<!DOCTYPE html><html><body>Our systems have detected unusual traffic from your computer network.</body></html>`
