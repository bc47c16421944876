package textfmt

import "github.com/muesli/termenv"

// Style describes how text is rendered. Empty Color or Background means unset.
type Style struct {
	Color      string
	Background string
	Bold       bool
	Italic     bool
	Underline  bool
}

// Option adjusts rendering.
type Option func(*options)

type options struct {
	profile termenv.Profile
}

// WithProfile renders for the given colour profile instead of TrueColor.
// termenv.Ascii strips all styling.
func WithProfile(p termenv.Profile) Option {
	return func(o *options) { o.profile = p }
}

// FormatText returns message wrapped in the escape sequences described by style.
func FormatText(message string, style Style, opts ...Option) string {
	o := options{profile: termenv.TrueColor}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return render(o.profile, message, style)
}

// FormatList applies FormatText to each item.
func FormatList(items []string, style Style, opts ...Option) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = FormatText(item, style, opts...)
	}
	return out
}

func render(p termenv.Profile, message string, style Style) string {
	s := p.String(message)
	if style.Bold {
		s = s.Bold()
	}
	if style.Italic {
		s = s.Italic()
	}
	if style.Underline {
		s = s.Underline()
	}
	if style.Color != "" {
		s = s.Foreground(ParseColor(style.Color).termenv(p))
	}
	if style.Background != "" {
		s = s.Background(ParseColor(style.Background).termenv(p))
	}
	return s.String()
}
