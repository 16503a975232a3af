package spelling

var americanToBritish = map[string]string{
	"analyze":        "analyse",
	"analyzed":       "analysed",
	"analyzing":      "analysing",
	"apologize":      "apologise",
	"authorize":      "authorise",
	"authorized":     "authorised",
	"behavior":       "behaviour",
	"behaviors":      "behaviours",
	"catalog":        "catalogue",
	"center":         "centre",
	"centers":        "centres",
	"color":          "colour",
	"colors":         "colours",
	"defense":        "defence",
	"emphasize":      "emphasise",
	"emphasized":     "emphasised",
	"enroll":         "enrol",
	"favor":          "favour",
	"favorite":       "favourite",
	"fulfill":        "fulfil",
	"honor":          "honour",
	"labor":          "labour",
	"license":        "licence",
	"neighbor":       "neighbour",
	"neighbors":      "neighbours",
	"offense":        "offence",
	"organization":   "organisation",
	"organizations":  "organisations",
	"organize":       "organise",
	"organized":      "organised",
	"prioritize":     "prioritise",
	"prioritized":    "prioritised",
	"program":        "programme",
	"programs":       "programmes",
	"realize":        "realise",
	"realized":       "realised",
	"recognize":      "recognise",
	"recognized":     "recognised",
	"summarize":      "summarise",
	"summarized":     "summarised",
	"theater":        "theatre",
	"traveled":       "travelled",
	"traveling":      "travelling",
	"utilize":        "utilise",
	"minimize":       "minimise",
	"maximize":       "maximise",
	"finalize":       "finalise",
	"finalized":      "finalised",
	"standardize":    "standardise",
	"modeling":       "modelling",
	"canceled":       "cancelled",
	"canceling":      "cancelling",
	"judgment":       "judgement",
	"gray":           "grey",
	"meter":          "metre",
	"liter":          "litre",
	"fiber":          "fibre",
	"harmonize":      "harmonise",
	"mobilize":       "mobilise",
	"optimize":       "optimise",
	"optimization":   "optimisation",
	"characterize":   "characterise",
	"criticize":      "criticise",
	"criticized":     "criticised",
	"specialize":     "specialise",
	"specialized":    "specialised",
	"stabilize":      "stabilise",
	"categorize":     "categorise",
	"memorize":       "memorise",
	"customize":      "customise",
	"customized":     "customised",
	"initialize":     "initialise",
	"synchronize":    "synchronise",
	"visualize":      "visualise",
	"modernize":      "modernise",
	"revolutionize":  "revolutionise",
	"harbor":         "harbour",
	"rumor":          "rumour",
	"endeavor":       "endeavour",
	"humor":          "humour",
	"vapor":          "vapour",
	"counselor":      "counsellor",
	"jewelry":        "jewellery",
	"skeptical":      "sceptical",
	"aluminum":       "aluminium",
	"maneuver":       "manoeuvre",
	"pediatric":      "paediatric",
	"practicing":     "practising",
	"installment":    "instalment",
	"enrollment":     "enrolment",
	"fulfillment":    "fulfilment",
	"acknowledgment": "acknowledgement",
}
