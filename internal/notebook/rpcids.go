package notebook

// RPC endpoint ids for the NotebookLM front end. The ids are opaque handles
// minted by the service; names mirror the operations they invoke.
const (
	// Project operations.
	rpcListRecentlyViewedProjects = "wXbhsf"
	rpcCreateProject              = "CCqFvf"
	rpcGetProject                 = "rLM1Ne"
	rpcDeleteProjects             = "WWINqb"
	rpcMutateProject              = "s0tc2d"
	rpcRemoveRecentlyViewed       = "fejl7e"

	// Source operations.
	rpcAddSources           = "izAoDd"
	rpcDeleteSources        = "tGMBJ"
	rpcMutateSource         = "b7Wfje"
	rpcRefreshSource        = "FLmJqe"
	rpcLoadSource           = "hizoJc"
	rpcCheckSourceFreshness = "yR9Yof"
	rpcActOnSources         = "yyryJe"

	// Note operations.
	rpcCreateNote  = "CYK0Xb"
	rpcMutateNote  = "cYAfTb"
	rpcDeleteNotes = "AH0mwd"
	rpcGetNotes    = "cFji9"

	// Audio overview operations.
	rpcCreateAudioOverview = "AHyHrd"
	rpcGetAudioOverview    = "VUsiyb"
	rpcDeleteAudioOverview = "sJDbic"
	rpcShareAudio          = "RGP97b"

	// Generation operations.
	rpcGenerateDocumentGuides = "tr032e"
	rpcGenerateNotebookGuide  = "VfAZjd"
	rpcGenerateOutline        = "lCjAd"
	rpcGenerateSection        = "BeTrYd"
	rpcStartDraft             = "exXvGf"
	rpcStartSection           = "pGC7gf"
)
