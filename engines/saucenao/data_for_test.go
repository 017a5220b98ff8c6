package saucenao

const resultsJSON = `{
  "header": {"user_id": "0", "account_type": "0", "short_limit": "4", "long_limit": "100", "status": 0, "results_requested": 16, "search_depth": "128", "minimum_similarity": 40.0, "results_returned": 3},
  "results": [
    {
      "header": {"similarity": "93.12", "thumbnail": "https://img3.saucenao.com/res/pixiv/1.jpg", "index_id": 5, "index_name": "Index #5: Pixiv Images - 1001_p0.jpg"},
      "data": {"ext_urls": ["https://www.pixiv.net/member_illust.php?mode=medium&illust_id=1001", "https://www.pixiv.net/artworks/1001"], "title": "Sunset Study", "pixiv_id": 1001, "member_name": "Some Artist", "member_id": 42}
    },
    {
      "header": {"similarity": "61.50", "thumbnail": "https://img3.saucenao.com/res/dan/2.jpg", "index_id": 9, "index_name": "Index #9: Danbooru"},
      "data": {"source": "//twitter.com/other/status/7", "creator": ["someone"], "author_name": "Other Artist", "author_url": "https://twitter.com/other", "created_at": "2020-01-02T03:04:05Z"}
    },
    {
      "header": {"similarity": "12.00", "thumbnail": "https://img3.saucenao.com/res/x/3.jpg", "index_id": 12, "index_name": "Index #12: Yande.re"},
      "data": {"ext_urls": ["https://yande.re/post/show/3"]}
    }
  ]
}`

const rateLimitedJSON = `{"header": {"status": -2, "message": "Search Rate Too High."}}`

const negativeWithoutMessageJSON = `{"header": {"status": -1}}`

const noResultsJSON = `{"header": {"status": 0, "results_returned": 0}}`

const nonFiniteSimilarityJSON = `{
  "header": {"status": 0, "results_returned": 2},
  "results": [
    {
      "header": {"similarity": "NaN", "thumbnail": "https://img3.saucenao.com/res/x/4.jpg", "index_id": 5, "index_name": "Index #5: Pixiv Images"},
      "data": {"ext_urls": ["https://www.pixiv.net/artworks/4"], "title": "Not a number"}
    },
    {
      "header": {"similarity": "+Inf", "thumbnail": "https://img3.saucenao.com/res/x/5.jpg", "index_id": 5, "index_name": "Index #5: Pixiv Images"},
      "data": {"ext_urls": ["https://www.pixiv.net/artworks/5"], "title": "Infinite"}
    }
  ]
}`
