// Package assets provides the CSS, HTML templates and emoji images used to
// lay out an exported course.
//
// # Loaders
//
//	Loader (interface)
//	    │
//	    ├── EmbeddedLoader    - styles and templates compiled into the binary
//	    ├── FilesystemLoader  - overrides from a directory on disk
//	    └── Resolver          - custom-first lookup with embedded fallback
//
// A custom directory mirrors the embedded layout:
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	└── templates/
//	    ├── cover.html
//	    └── document.html
//
// # Emoji images
//
// EmojiAssets answers whether an image exists for an emoji asset key and
// returns a reference the browser can load. Files follow the Noto naming
// scheme emoji_u{key}.svg. Lookups are cached.
//
// # Security
//
// Asset names and emoji keys are validated before they reach the
// filesystem, and resolved paths must stay within their base directory.
package assets
