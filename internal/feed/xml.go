// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package feed

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// Namespace URIs for the extension prefixes a feed may use.
var namespaces = []struct{ prefix, uri string }{
	{"atom", "http://www.w3.org/2005/Atom"},
	{"content", "http://purl.org/rss/1.0/modules/content/"},
	{"dc", "http://purl.org/dc/elements/1.1/"},
	{"itunes", "http://www.itunes.com/dtds/podcast-1.0.dtd"},
	{"podcast", "https://podcastindex.org/namespace/1.0"},
	{"psc", "http://podlove.org/simple-chapters"},
	{"rawvoice", "http://www.rawvoice.com/rawvoiceRssModule/"},
}

type attr struct {
	name, value string
}

// element is an immutable XML fragment. Builders return new values; the
// document is serialized once, after every fragment has been composed.
type element struct {
	name     string
	attrs    []attr
	text     string
	cdata    bool
	children []element
}

func el(name string, children ...element) element {
	return element{name: name, children: children}
}

func textEl(name, text string) element {
	return element{name: name, text: text}
}

func cdataEl(name, text string) element {
	return element{name: name, text: text, cdata: true}
}

// withAttr returns a copy of e with an extra attribute.
func (e element) withAttr(name, value string) element {
	e.attrs = append(append([]attr(nil), e.attrs...), attr{name, value})
	return e
}

// prefixes records every namespace prefix used by e and its descendants.
func (e element) prefixes(seen map[string]bool) {
	if p, _, ok := strings.Cut(e.name, ":"); ok {
		seen[p] = true
	}
	for _, a := range e.attrs {
		if p, _, ok := strings.Cut(a.name, ":"); ok && p != "xmlns" {
			seen[p] = true
		}
	}
	for _, c := range e.children {
		c.prefixes(seen)
	}
}

func (e element) write(buf *bytes.Buffer, depth int) {
	indent := strings.Repeat("  ", depth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(e.name)
	for _, a := range e.attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.name)
		buf.WriteString(`="`)
		xml.EscapeText(buf, []byte(a.value))
		buf.WriteByte('"')
	}

	switch {
	case len(e.children) > 0:
		buf.WriteString(">\n")
		for _, c := range e.children {
			c.write(buf, depth+1)
		}
		buf.WriteString(indent)
	case e.cdata:
		buf.WriteString("><![CDATA[")
		buf.WriteString(strings.ReplaceAll(validXMLChars(e.text), "]]>", "]]]]><![CDATA[>"))
		buf.WriteString("]]>")
	case e.text != "":
		buf.WriteByte('>')
		xml.EscapeText(buf, []byte(e.text))
	default:
		buf.WriteString(" />\n")
		return
	}
	buf.WriteString("</")
	buf.WriteString(e.name)
	buf.WriteString(">\n")
}

// validXMLChars replaces runes XML 1.0 does not allow with U+FFFD, as
// xml.EscapeText does for character data.
func validXMLChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0x09 || r == 0x0A || r == 0x0D ||
			(r >= 0x20 && r <= 0xD7FF) ||
			(r >= 0xE000 && r <= 0xFFFD) ||
			(r >= 0x10000 && r <= 0x10FFFF) {
			return r
		}
		return '\uFFFD'
	}, s)
}

// document wraps channel in an <rss> root that declares exactly the
// namespaces the channel uses, and serializes it.
func document(channel element) []byte {
	seen := make(map[string]bool)
	channel.prefixes(seen)

	root := el("rss", channel).withAttr("version", "2.0")
	for _, ns := range namespaces {
		if seen[ns.prefix] {
			root = root.withAttr("xmlns:"+ns.prefix, ns.uri)
		}
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	root.write(&buf, 0)
	return buf.Bytes()
}
