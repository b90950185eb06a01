package youtube

import "testing"

func TestExtractID(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "watch_url",
			url:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "short_link",
			url:  "https://youtu.be/dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "embed_url",
			url:  "https://www.youtube.com/embed/dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "shorts_url",
			url:  "https://youtube.com/shorts/dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "watch_with_extra_params",
			url:  "https://www.youtube.com/watch?t=42&v=dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "not_a_video_url",
			url:  "https://example.com/watch?v=tooshort",
			want: "",
		},
		{
			name: "garbage",
			url:  "not a url at all",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractID(tc.url)
			if got != tc.want {
				t.Fatalf("ExtractID(%q)=%q, want %q", tc.url, got, tc.want)
			}
		})
	}
}

func TestThumbURL(t *testing.T) {
	got := ThumbURL("dQw4w9WgXcQ", "hq")
	want := "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg"
	if got != want {
		t.Fatalf("ThumbURL=%q, want %q", got, want)
	}
	if got := ThumbURL("dQw4w9WgXcQ", ""); got != want {
		t.Fatalf("ThumbURL default quality=%q, want %q", got, want)
	}
}
