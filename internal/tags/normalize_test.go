package tags

import (
	"reflect"
	"testing"

	"flacsmith/internal/format"
)

func TestNormalizeColonSchema(t *testing.T) {
	raw := `Input #0, ape, from 'album.ape':
Metadata:
 Artist: Los Niños Muertos
 Title: Canción #1
 Track: 3 of 12
 Year: 1997
 Comment: ripped with EAC
 Disk: 1 of 2
1 audio stream detected
`
	got := Normalize(format.TagSchemaColon, raw)
	want := TagSet{
		{Key: "ARTIST", Value: "Los Niños Muertos"},
		{Key: "TITLE", Value: "Canción #1"},
		{Key: "TRACKNUMBER", Value: "3"},
		{Key: "DATE", Value: "1997"},
		{Key: "DESCRIPTION", Value: "ripped with EAC"},
		{Key: "DISCNUMBER", Value: "1"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize colon = %#v, want %#v", got, want)
	}
}

func TestNormalizeEqualsSchema(t *testing.T) {
	raw := `WVUNPACK 5.6.0
Artist = Foo
title = Bar Baz
track = 7 of 11
comments = gapless rip

done.
`
	got := Normalize(format.TagSchemaEquals, raw)
	want := TagSet{
		{Key: "ARTIST", Value: "Foo"},
		{Key: "TITLE", Value: "Bar Baz"},
		{Key: "TRACKNUMBER", Value: "7"},
		{Key: "DESCRIPTION", Value: "gapless rip"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize equals = %#v, want %#v", got, want)
	}
}

func TestNormalizeCanonicalPassThrough(t *testing.T) {
	raw := "ARTIST=Foo\nTITLE=Bar\nTRACKNUMBER=4\n"
	got := Normalize(format.TagSchemaCanonical, raw)
	want := TagSet{
		{Key: "ARTIST", Value: "Foo"},
		{Key: "TITLE", Value: "Bar"},
		{Key: "TRACKNUMBER", Value: "4"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize canonical = %#v, want %#v", got, want)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := " Artist: Foo\n Track: 3 of 12\n Year: 2001\n"
	first := Normalize(format.TagSchemaColon, raw)
	second := Normalize(format.TagSchemaCanonical, first.Encode())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalizing a canonical set changed it: %#v vs %#v", first, second)
	}
}

func TestNormalizeUnknownKeysUppercased(t *testing.T) {
	got := Normalize(format.TagSchemaEquals, "CatalogNumber = XYZ-001\n")
	if len(got) != 1 || got[0].Key != "CATALOGNUMBER" || got[0].Value != "XYZ-001" {
		t.Fatalf("unexpected result %#v", got)
	}
}

func TestNormalizeValuesPreserved(t *testing.T) {
	// Case, accents, and punctuation in values must survive byte-for-byte.
	got := Normalize(format.TagSchemaColon, " Album: Die Größte Hits: Vol. 2\n")
	if len(got) != 1 || got[0].Value != "Die Größte Hits: Vol. 2" {
		t.Fatalf("value was altered: %#v", got)
	}
}

func TestNormalizeEnumerationNeedsBareDigits(t *testing.T) {
	// Locale-separated numbers do not trigger the "of N" strip.
	got := Normalize(format.TagSchemaEquals, "Track = 1,024 of 2,048\n")
	if len(got) != 1 || got[0].Value != "1,024 of 2,048" {
		t.Fatalf("enumeration strip should not fire: %#v", got)
	}
}

func TestNormalizeEmptyDump(t *testing.T) {
	if got := Normalize(format.TagSchemaColon, "no tags here\n\njust noise"); len(got) != 0 {
		t.Fatalf("expected empty set, got %#v", got)
	}
	if got := Normalize(format.TagSchemaNone, "Artist = Foo"); got != nil {
		t.Fatalf("schema-less dump must normalize to nil, got %#v", got)
	}
}

func TestNormalizeColonSchemaIndented(t *testing.T) {
	raw := "Input #0, ape, from 'album.ape':\n" +
		"  Metadata:\n" +
		"    artist          : Los Lobos\n" +
		"    track           : 3 of 12\n" +
		"  Duration: 00:03:12.34, start: 0.000000\n"
	got := Normalize(format.TagSchemaColon, raw)

	byKey := map[string]string{}
	for _, tag := range got {
		byKey[tag.Key] = tag.Value
	}
	if byKey["ARTIST"] != "Los Lobos" {
		t.Fatalf("indented artist line not parsed: %#v", got)
	}
	if byKey["TRACKNUMBER"] != "3" {
		t.Fatalf("indented enumeration not normalized: %#v", got)
	}
}

func TestEncode(t *testing.T) {
	set := TagSet{{Key: "ARTIST", Value: "Foo"}, {Key: "DATE", Value: "1997"}}
	if set.Encode() != "ARTIST=Foo\nDATE=1997\n" {
		t.Fatalf("unexpected encoding %q", set.Encode())
	}
	if (TagSet{}).Encode() != "" {
		t.Fatal("empty set must encode to empty string")
	}
}
