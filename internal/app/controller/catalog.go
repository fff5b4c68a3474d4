package controller

// CityCatalog is the static list backing search suggestions. Matching keeps
// this order and caps results at maxSuggestions.
var CityCatalog = []string{
	"Amsterdam",
	"Athens",
	"Bangkok",
	"Barcelona",
	"Beijing",
	"Berlin",
	"Buenos Aires",
	"Cairo",
	"Cape Town",
	"Chicago",
	"Delhi",
	"Dubai",
	"Dublin",
	"Hong Kong",
	"Istanbul",
	"Jakarta",
	"Lagos",
	"Lisbon",
	"London",
	"Los Angeles",
	"Madrid",
	"Melbourne",
	"Mexico City",
	"Moscow",
	"Mumbai",
	"Nairobi",
	"New York",
	"Oslo",
	"Paris",
	"Prague",
	"Rio de Janeiro",
	"Rome",
	"San Francisco",
	"Seoul",
	"Singapore",
	"Stockholm",
	"Sydney",
	"Tokyo",
	"Toronto",
	"Vienna",
	"Warsaw",
	"Zurich",
}
