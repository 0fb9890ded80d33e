package tui

const aboutText = `This app analyzes the sentiment of movie reviews using a deep learning model trained on the IMDB dataset. Enter your review to see if it's predicted to be positive or negative.`

var tips = []string{
	"Write at least a few sentences",
	"Be specific about what you liked/disliked",
	"Use descriptive language",
}

const positiveExample = "This movie was absolutely brilliant! The acting was superb, and the plot kept me engaged throughout. The cinematography was breathtaking, and the score perfectly complemented each scene."

const negativeExample = "I was really disappointed with this film. The plot had numerous holes, the dialogue felt forced, and the special effects were dated. I wouldn't recommend it."

const (
	emptyReviewMsg   = "Please enter a review before analyzing."
	analysisErrorMsg = "An error occurred during analysis. Please try again with a different review."
	analyzingMsg     = "Analyzing your review..."
	helpLine         = "ctrl+s analyze • ctrl+e positive example • ctrl+n negative example • pgup/pgdn scroll • esc quit"
)
