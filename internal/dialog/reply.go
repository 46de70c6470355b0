package dialog

// Keyboard is a transport-neutral hint for the buttons shown under a reply.
// A Keyboard without rows hides the current one.
type Keyboard struct {
	Rows [][]string
}

// Reply is one outgoing message.
type Reply struct {
	Text     string
	Keyboard *Keyboard // nil keeps whatever the user currently sees
}

func say(text string) []Reply {
	return []Reply{{Text: text}}
}

func sayWith(text string, kb *Keyboard) []Reply {
	return []Reply{{Text: text, Keyboard: kb}}
}

func menu(text string) []Reply {
	return sayWith(text, mainMenuKeyboard())
}
