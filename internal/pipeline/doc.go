// Package pipeline makes user-authored activity HTML printable.
//
// A fragment goes through these stages, in order:
//   - Unicode math characters replaced by inline TeX
//   - permissive parsing into a tree (parse errors are ignored)
//   - emoji clusters in text nodes replaced by inline images (longest
//     cluster first); attribute values keep their emoji
//   - rem and em lengths in style, width and height turned into px
//   - attached-file image sources pointed at the export files directory
//   - client-side math placeholders (script type="math/tex") removed
//   - serialization, wrapped in a div
//
// Every stage degrades instead of failing: a missing emoji image drops the
// emoji, an unparsable length is left alone. Normalizer is the entry point.
package pipeline
