// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import "myweblog/internal/models"

// layoutHead and layoutFoot wrap every built-in template.
const layoutHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} | {{.Site.Name}}</title>
{{if .Site.FeedURL}}<link rel="alternate" type="application/rss+xml" title="{{.Site.Name}}" href="{{.Site.FeedURL}}">{{end}}
</head>
<body>
<header>
<a href="{{.Site.URL}}">{{.Site.Name}}</a>{{if .Site.Subtitle}} <small>{{.Site.Subtitle}}</small>{{end}}
<nav>{{range .Site.Pages}}<a href="{{.URL}}">{{.Title}}</a> {{end}}</nav>
</header>
<main>
`

const layoutFoot = `
</main>
<footer>&copy; {{.Site.Year}} {{.Site.Name}}</footer>
</body>
</html>
`

// builtinTemplates are used when a theme does not define a template.
var builtinTemplates = map[string]string{
	models.TemplateSinglePost: layoutHead + `<article>
<h1>{{.Title}}</h1>
{{if .PublishedOn}}<p><time>{{.PublishedOn}}</time></p>{{end}}
{{.Body}}
{{if .Categories}}<p>Categories: {{range .Categories}}<a href="{{.URL}}">{{.Title}}</a> {{end}}</p>{{end}}
{{if .Tags}}<p>Tags: {{range .Tags}}<a href="{{.URL}}">{{.Title}}</a> {{end}}</p>{{end}}
{{if .ChaptersURL}}<p><a href="{{.ChaptersURL}}">Chapters</a></p>{{end}}
</article>` + layoutFoot,

	models.TemplateSinglePage: layoutHead + `<article>
<h1>{{.Title}}</h1>
{{.Body}}
</article>` + layoutFoot,

	models.TemplateIndex: layoutHead + `{{range .Posts}}<article>
<h2><a href="{{.URL}}">{{.Title}}</a></h2>
{{if .PublishedOn}}<p><time>{{.PublishedOn}}</time></p>{{end}}
<p>{{.Excerpt}}</p>
</article>
{{else}}<p>No posts yet.</p>
{{end}}` + layoutFoot,
}
