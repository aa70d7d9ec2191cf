package style

import "minibrowser/pkg/css"

// DefaultCSS is the user agent stylesheet. It assigns the display of the
// structural elements and a few typographic defaults.
const DefaultCSS = `
html, body, div, p, h1, h2, h3, h4, h5, h6, ul, ol, li, dl, dt, dd,
header, footer, section, article, nav, main, aside, blockquote, pre,
form, hr, address, figure, figcaption {
    display: block;
}

head, title, style, script, meta, link, template {
    display: none;
}

table { display: table; }
thead, tbody, tfoot { display: table-row-group; }
tr { display: table-row; }
td, th { display: table-cell; }

img, button { display: inline-block; }

h1 { font-size: 2em; font-weight: bold; }
h2 { font-size: 1.5em; font-weight: bold; }
h3 { font-size: 1.17em; font-weight: bold; }
h4, h5, h6, th, b, strong { font-weight: bold; }
i, em { font-style: italic; }
pre, code { font-family: monospace; }

a { color: #0645ad; }
`

// DefaultStylesheet returns a freshly parsed copy of DefaultCSS.
func DefaultStylesheet() *css.Stylesheet {
	return css.MustParseStylesheet(DefaultCSS)
}
