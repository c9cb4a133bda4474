package pubmedcentral

// IDConvResponse ist die JSON-Antwort des NCBI ID-Converter-Service.
type IDConvResponse struct {
	Status  string `json:"status"`
	Records []struct {
		PMCID    string `json:"pmcid"`
		PMID     string `json:"pmid"`
		DOI      string `json:"doi"`
		Live     string `json:"live"`
		Status   string `json:"status"`
		ErrMsg   string `json:"errmsg"`
		Versions []struct {
			PMCID   string `json:"pmcid"`
			Current string `json:"current"`
		} `json:"versions"`
	} `json:"records"`
}
