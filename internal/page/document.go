package page

import "html"

const documentHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>`

const documentStyle = `</title>
<style>
body { max-width: 860px; margin: 2rem auto; padding: 0 1rem; font-family: system-ui, sans-serif; line-height: 1.55; }
pre { background: #f5f5f5; padding: .75rem; overflow-x: auto; }
code { background: #f5f5f5; padding: 0 .2rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: .3rem .6rem; }
blockquote { border-left: 3px solid #ccc; margin-left: 0; padding-left: 1rem; color: #555; }
</style>
</head>
<body>
`

// Document wraps a fragment in a standalone page for a browser.
func Document(title, body string) string {
	return documentHead + html.EscapeString(title) + documentStyle + body + "\n</body>\n</html>\n"
}
