package dom

// Controls of the search form.
const (
	EntryButton   = "UN_PAM_EXTR_WRK_UN_MODULE_PB"
	CampusSelect  = "UN_PAM_EXTR_WRK_CAMPUS"
	YearSelect    = "UN_PAM_EXTR_WRK_STRM"
	GroupSelect   = "UN_PAM_EXTR_WRK_UN_PAM_CRSE1_SRCH$0"
	SearchButton  = "UN_PAM_EXTR_WRK_UN_SEARCH_PB$0"
	ResultsPanel  = "win0divUN_PAM_CRSE_VW$0"
	EmptyPanel    = "win0divUN_PAM_EXTR_WRK_HTMLAREA8"
	ResultsTable  = "UN_PAM_CRSE_VW$scroll$0"
	DetailAnchor  = "UN_PAM_CRSE_DTL_SUBJECT_DESCR$0"
	ConvenorTable = "UN_PAM_CRS_CONV$scroll$0"
	ClassTable    = "UN_PAM_CRSE_FRQ$scroll$0"
	AssessTable   = "UN_QA_CRSE_ASAI$scroll$0"
)

// Listing row fields, rendered once per row index.
const (
	ListingLevel    = "UN_PAM_CRSE_VW_UN_LEVEL1_DESCR"
	ListingCode     = "CRSE_CODE"
	ListingTitle    = "UN_PAM_CRSE_VW_COURSE_TITLE_LONG"
	ListingSemester = "SSR_CRSE_TYPOFF_DESCR"
)

// Detail scalar fields. The detail page renders each as the only row of its
// section, so they are read at index 0.
const (
	DetailCode       = "UN_PAM_CRSE_DTL_SUBJECT_DESCR"
	DetailTitle      = "UN_PAM_CRSE_DTL_COURSE_TITLE_LONG"
	DetailCredits    = "UN_PAM_CRSE_DTL_UNITS_MINIMUM"
	DetailLevel      = "UN_PAM_CRSE_DTL_UN_LEVELS"
	DetailSummary    = "UN_PAM_CRSE_DTL_UN_SUMMARY_CONTENT"
	DetailAims       = "UN_PAM_CRSE_DTL_UN_AIMS"
	DetailOffering   = "ACAD_ORG_TBL_DESCRFORMAL"
	DetailSemester   = "SSR_CRSE_TYPOFF_DESCR"
	DetailRequisites = "UN_PAM_CRSE_WRK_UN_PRE_CO_REQ_GRP"
	DetailOutcome    = "UN_QAA_CRSE_OUT_UN_LEARN_OUTCOME"
)

// Detail sub-table fields, one per row index.
const (
	ConvenorName = "UN_PAM_CRS_CONV_NAME52"

	ClassActivity        = "UN_PAM_CRSE_FRQ_SSR_COMPONENT"
	ClassWeeks           = "UN_PAM_EXTR_WRK_UN_CRSE_DURATN_WKS"
	ClassSessions        = "UN_PAM_EXTR_WRK_UN_CRSE_NUM_SESN"
	ClassSessionDuration = "UN_PAM_EXTR_WRK_UN_CRSE_DURATN_SES"

	AssessType         = "UN_QA_CRSE_ASAI_DESCR50"
	AssessWeight       = "UN_QA_CRSE_ASAI_SSR_CW_WEIGHT"
	AssessRequirements = "UN_QA_CRSE_ASAI_SSR_DESCRLONG"
)

// YearOptionsLoaded matches once the year select has been populated for the
// chosen campus.
var YearOptionsLoaded = ByID(YearSelect) + ` > option:not([value=""])`

// CodeLink is the id of the clickable course code of listing row i.
func CodeLink(i int) string {
	return ID(ListingCode, At(i))
}
