// Package mcreader implements a content source for mgeko.cc (formerly
// mcreader.net). Pages are fetched through a providers.Host and read with
// goquery; every markup anchor lives in the Selectors table.
package mcreader
