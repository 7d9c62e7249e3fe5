package script

// promptSet holds every spoken line for one locale. Lines with verbs are
// romanized where the synthesis voice handles romanized input better than
// script text on low-bandwidth calls.
type promptSet struct {
	voice string

	greeting       string // %s subject name
	antiFraud      string
	infoLead       string
	landQuestion   string
	ackNext        string
	creditQuestion string
	matchFound     string // %s subject name
	peerLead       string
	docsQuestion   string
	noInputSMS     string
	noInputRetry   string
	docsNeeded     string // %s scheme name, %d document count
	docsItem       string // %d index, %s document
	applyAt        string // %s venue
	smsSent        string
	secondQuestion string
	laterClose     string // %s subject name
	warmClose      string // %s subject name
	secondIntro    string // %s subject name
	finalClose     string // %s subject name
	reprompt       string
	genericError   string
}

var promptsByLocale = map[string]promptSet{
	"hi-IN": {
		voice: "Polly.Kajal",

		greeting:       "Namaste %s ji. Main Sahaya hoon. Ek sarkaari kalyan sahayak. Main aapko sarkaari yojanaon ke baare mein jaankari dene ke liye call kar rahi hoon.",
		antiFraud:      "Ek important baat. Main kabhi aapka Aadhaar number, OTP, ya bank password nahi maangti.",
		infoLead:       "Ab main aapki thodi jaankari lena chahti hoon taaki sahi yojana bataa sakoon.",
		landQuestion:   "Aapke paas kitni zameen hai? Thodi zameen ke liye 1 dabayen. Beech ki zameen ke liye 2 dabayen. Zyaada zameen ke liye 3 dabayen.",
		ackNext:        "Achha. Ab ek aur sawaal.",
		creditQuestion: "Kya aapke paas Kisan Credit Card hai? Haan ke liye 1 dabaayein. Nahi ke liye 2 dabaayein.",
		matchFound:     "Mujhe %s ji ke liye sahi yojana mil gayi hai.",
		peerLead:       "Is yojana ke baare mein ek aur kisan ka anubhav suniye.",
		docsQuestion:   "Kya aap apply karne ke liye zaroori kagzaat jaanna chahte hain? Haan ke liye 1 dabaayein. Baad mein sunne ke liye 2 dabaayein.",
		noInputSMS:     "Koi jawab nahi mila. Sahaya aapko SMS bhejegi. Dhanyavaad.",
		noInputRetry:   "Koi jawab nahi mila. Sahaya dobara call karegi.",
		docsNeeded:     "%s ke liye aapko %d kagaz chahiye.",
		docsItem:       "Number %d: %s.",
		applyAt:        "Yeh kagaz lekar %s mein jaaiye aur apply kariye.",
		smsSent:        "Sahaya ne aapke phone par SMS bhej diya hai. Usme yeh sabhi jaankari likhi hui hai.",
		secondQuestion: "Kya aap doosri yojanaon ke baare mein bhi jaanna chahte hain? Haan ke liye 1 dabaayein. Nahi ke liye 2 dabaayein.",
		laterClose:     "Bilkul %s ji. Sahaya ne aapko SMS bhej diya hai. Usme poori jaankari hai. Hum 3 din mein dobara call karenge. Dhanyavaad. Jai Kisan.",
		warmClose:      "Bahut achha %s ji. Sahaya ne aapke phone par poori jaankari ke saath SMS bhej diya hai. 3 din mein Sahaya dobara call karegi. Dhanyavaad. Jai Kisan. Jai Hind.",
		secondIntro:    "%s ji, ek aur yojana hai jo aapke liye sahi hai.",
		finalClose:     "Sahaya ne SMS mein yeh bhi jaankari bhej di hai. Hum 3 din mein phir call karenge. Dhanyavaad %s ji. Jai Kisan.",
		reprompt:       "Maaf kijiye, yeh sahi jawab nahi hai.",
		genericError:   "Maaf kijiye, abhi kuch samasya hai. Sahaya aapko SMS bhejegi aur dobara call karegi. Dhanyavaad.",
	},
	"en-IN": {
		voice: "Polly.Raveena",

		greeting:       "Hello %s. I am Sahaya, a government welfare assistant. I am calling to tell you about welfare schemes you may be eligible for.",
		antiFraud:      "One important thing. I will never ask for your Aadhaar number, OTP, or bank password.",
		infoLead:       "I would like to ask a couple of questions so I can suggest the right scheme.",
		landQuestion:   "How much land do you farm? Press 1 for a small holding. Press 2 for a medium holding. Press 3 for a large holding.",
		ackNext:        "Thank you. One more question.",
		creditQuestion: "Do you have a Kisan Credit Card? Press 1 for yes. Press 2 for no.",
		matchFound:     "I have found the right scheme for %s.",
		peerLead:       "Here is another farmer's experience with this scheme.",
		docsQuestion:   "Would you like to hear the documents needed to apply? Press 1 for yes. Press 2 to hear them later.",
		noInputSMS:     "I did not receive an answer. Sahaya will send you an SMS. Thank you.",
		noInputRetry:   "I did not receive an answer. Sahaya will call you again.",
		docsNeeded:     "For %s you will need %d documents.",
		docsItem:       "Number %d: %s.",
		applyAt:        "Take these documents to %s and apply.",
		smsSent:        "Sahaya has sent an SMS to your phone with all of this information.",
		secondQuestion: "Would you like to hear about another scheme as well? Press 1 for yes. Press 2 for no.",
		laterClose:     "Of course, %s. Sahaya has sent you an SMS with the full details. We will call again in 3 days. Thank you.",
		warmClose:      "Very good, %s. Sahaya has sent the full details to your phone by SMS. Sahaya will call again in 3 days. Thank you.",
		secondIntro:    "%s, there is one more scheme that suits you.",
		finalClose:     "Sahaya has included this in the SMS as well. We will call again in 3 days. Thank you, %s.",
		reprompt:       "Sorry, that was not a valid answer.",
		genericError:   "Sorry, something went wrong. Sahaya will send you an SMS and call again. Thank you.",
	},
}

func promptsFor(locale string) promptSet {
	if p, ok := promptsByLocale[locale]; ok {
		return p
	}
	return promptsByLocale["hi-IN"]
}
