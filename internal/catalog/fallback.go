package catalog

const placeholderThumb = "https://via.placeholder.com/300x300/4f46e5/ffffff?text=Music"

// popularArtists is the lookup order for the popular feed. Walked until ten
// tracks are collected.
var popularArtists = []string{
	"taylor swift",
	"the weeknd",
	"ed sheeran",
	"ariana grande",
	"drake",
	"billie eilish",
	"the beatles",
	"queen",
	"bad bunny",
	"post malone",
}

// fallbackTracks is the curated table used whenever the remote catalog is
// unreachable or comes back short. Exactly ten entries.
var fallbackTracks = []Track{
	{ID: "the_weeknd_blinding_lights", Name: "Blinding Lights", Artist: "The Weeknd", Genre: "Pop", Year: "2019", Duration: "3:20", Album: "After Hours", Thumbnail: placeholderThumb},
	{ID: "ed_sheeran_shape_of_you", Name: "Shape of You", Artist: "Ed Sheeran", Genre: "Pop", Year: "2017", Duration: "3:53", Album: "÷", Thumbnail: placeholderThumb},
	{ID: "billie_eilish_bad_guy", Name: "Bad Guy", Artist: "Billie Eilish", Genre: "Pop", Year: "2019", Duration: "3:14", Album: "When We All Fall Asleep, Where Do We Go?", Thumbnail: placeholderThumb},
	{ID: "dua_lipa_levitating", Name: "Levitating", Artist: "Dua Lipa", Genre: "Pop", Year: "2020", Duration: "3:23", Album: "Future Nostalgia", Thumbnail: placeholderThumb},
	{ID: "harry_styles_watermelon_sugar", Name: "Watermelon Sugar", Artist: "Harry Styles", Genre: "Pop", Year: "2019", Duration: "2:54", Album: "Fine Line", Thumbnail: placeholderThumb},
	{ID: "taylor_swift_anti-hero", Name: "Anti-Hero", Artist: "Taylor Swift", Genre: "Pop", Year: "2022", Duration: "3:21", Album: "Midnights", Thumbnail: placeholderThumb},
	{ID: "queen_bohemian_rhapsody", Name: "Bohemian Rhapsody", Artist: "Queen", Genre: "Rock", Year: "1975", Duration: "5:55", Album: "A Night at the Opera", Thumbnail: placeholderThumb},
	{ID: "drake_gods_plan", Name: "God's Plan", Artist: "Drake", Genre: "Hip-Hop", Year: "2018", Duration: "3:18", Album: "Scorpion", Thumbnail: placeholderThumb},
	{ID: "bad_bunny_titi_me_pregunto", Name: "Tití Me Preguntó", Artist: "Bad Bunny", Genre: "Reggaeton", Year: "2022", Duration: "4:03", Album: "Un Verano Sin Ti", Thumbnail: placeholderThumb},
	{ID: "the_beatles_hey_jude", Name: "Hey Jude", Artist: "The Beatles", Genre: "Rock", Year: "1968", Duration: "7:11", Album: "Hey Jude", Thumbnail: placeholderThumb},
}

// FallbackTracks returns a copy of the curated table.
func FallbackTracks() []Track {
	out := make([]Track, len(fallbackTracks))
	copy(out, fallbackTracks)
	return out
}
