// Package document provides the paginated element tree that narration reads
// from. HTML documents are parsed with x/net/html and queried with goquery;
// Markdown documents are converted with goldmark and split into page
// containers made of text lines.
package document
