package assistant

// Canned reply texts. Kept in one place so tests can pin them down.
const (
	msgInvalidSelection = "Invalid selection, enter a number between 1 and %d"

	msgMoreFilesMatched = "%d more files matched - say \"show all files\" to see them."

	msgPickFollowUp = "You can also pick a follow-up question by number:"

	msgDocumentCleared = "Okay, I've closed that document. Search for another file or ask me to read something else."

	msgClarifyRead = "Which document would you like me to read or summarize? Give me a file name, a CR number, or a product name."

	msgClarifySearch = "What should I search for? Try a file name, a CR number, or a product name."

	msgReportNeedsDocument = "Open a change request document first (for example \"read CR 20049\") and then ask me to generate the impact analysis document."

	msgReportPrefilled = "I've pre-filled the impact analysis form from %s. Review the fields and generate the document when ready."

	msgAnswerFailed = "I couldn't find an answer to that in the current document. Try rephrasing the question."

	msgChatFailed = "Sorry, I ran into a problem answering that. Please try again."

	msgNotFound = "I couldn't find anything for that. Try searching for a file, asking about a policy topic, or giving me a CR number."

	msgRephrase = "I'm not sure I follow. Could you rephrase that, or give me a file name or topic to look up?"

	msgSourcesHeader = "Here are the sources for my last answer:"

	msgSourceByName = "That answer came from %s, but I couldn't locate the file in the drive right now."

	msgNoSources = "I don't have a source document for the last answer. Ask me to read or search for a file and I'll cite it."

	msgAuthRequired = "I couldn't reach your files because your sign-in has expired. Please sign in again and retry."

	msgNoTranscript = "No transcript is available for %s. You can open the recording directly instead."

	msgNoMedia = "I couldn't find any matching images or videos. Try different keywords."

	msgSearchFailed = "I couldn't search your files just now. Please try again in a moment."
)
