package wire

// Response status codes, RFC 3977 and RFC 4643. The first digit carries
// the response class: 1xx informative, 2xx success, 3xx send more input,
// 4xx transient failure, 5xx permanent failure. 1xx codes are meaningful
// in NNTP and are preserved as-is.
const (
	// 1xx informative
	StatusHelpFollows    = 100 // HELP text follows
	StatusCapabilityList = 101 // CAPABILITIES list follows
	StatusDate           = 111 // server date and time

	// 2xx success
	StatusPostingAllowed  = 200 // greeting, posting allowed
	StatusPostingDenied   = 201 // greeting, posting prohibited
	StatusClosing         = 205 // connection closing (QUIT)
	StatusGroupSelected   = 211 // group selected; also LISTGROUP numbers follow
	StatusList            = 215 // information follows (LIST)
	StatusArticle         = 220 // article follows
	StatusHead            = 221 // headers follow
	StatusBody            = 222 // body follows
	StatusStat            = 223 // article exists
	StatusOverviewFollows = 224 // overview information follows (OVER)
	StatusHeadersFollow   = 225 // headers follow (HDR)
	StatusNewArticles     = 230 // list of new articles follows (NEWNEWS)
	StatusNewGroups       = 231 // list of new newsgroups follows (NEWGROUPS)
	StatusTransferred     = 235 // article transferred OK (IHAVE)
	StatusPosted          = 240 // article received OK (POST)
	StatusAuthAccepted    = 281 // authentication accepted

	// 3xx intermediate
	StatusSendArticle  = 335 // send article to be transferred (IHAVE)
	StatusSendPost     = 340 // send article to be posted (POST)
	StatusNeedPassword = 381 // password required (AUTHINFO USER)

	// 4xx transient failure
	StatusNoSuchGroup       = 411
	StatusNoGroupSelected   = 412
	StatusNoCurrentArticle  = 420
	StatusNoNextArticle     = 421
	StatusNoPrevArticle     = 422
	StatusNoArticleInRange  = 423
	StatusNoSuchArticle     = 430
	StatusDuplicate         = 435 // article not wanted (IHAVE)
	StatusTransferFailed    = 436 // transfer failed, try again later
	StatusRejected          = 437 // article rejected, do not retry
	StatusPostingProhibited = 440
	StatusPostingFailed     = 441
	StatusAuthRequired      = 480
	StatusAuthRejected      = 481
	StatusAuthOutOfSequence = 482
	StatusTLSRequired       = 483

	// 5xx permanent failure
	StatusUnknownCommand = 500
	StatusSyntaxError    = 501
	StatusAccessDenied   = 502
	StatusNotSupported   = 503
)
