package loop

// Messages shown in the dialogue line.
const (
	MessageStart   = "Click the falling hearts before they slip away!"
	MessageWin     = "Time's up! Here's a sweet quote for you:"
	MessageLoss    = "Game over! Try again!"
	messageScoreFn = "Hearts collected: %d"
)

// Quotes is the set a winner gets one of.
var Quotes = []string{
	"Love is composed of a single soul inhabiting two bodies. – Aristotle",
	"The best thing to hold onto in life is each other. – Audrey Hepburn",
	"I have found the one whom my soul loves. – Song of Solomon 3:4",
	"You are my today and all of my tomorrows. – Leo Christopher",
	"I love you not only for what you are, but for what I am when I am with you. – Roy Croft",
	"In all the world, there is no heart for me like yours. – Maya Angelou",
	"I love you more than I have ever found a way to say to you. – Ben Folds",
	"You are my heart, my life, my one and only thought. – Arthur Conan Doyle",
	"I love you and that’s the beginning and end of everything. – F. Scott Fitzgerald",
	"I have loved you in countless forms, countless times. – Rabindranath Tagore",
}
