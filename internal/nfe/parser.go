// Package nfe parses Brazilian NF-e purchase documents. Parsing is pure:
// no lookups, no persistence; the matcher and confirm flow decide what to
// do with the extracted data.
package nfe

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Document is the parsed header plus line items of one NF-e.
type Document struct {
	// SourceID is the 44-digit access key (infNFe Id without the "NFe"
	// prefix). It identifies the document across the whole confirm flow.
	SourceID         string
	SupplierDocument string
	IssueDate        time.Time
	TotalAmount      decimal.Decimal
	Items            []Item
}

// Item is one <det> line of the document.
type Item struct {
	Barcode          string
	ManufacturerCode string
	Unit             string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	Description      string
}

// xmlNFe mirrors the subset of the NF-e schema the flow consumes. The same
// shape appears under <nfeProc><NFe> on fully processed documents and as a
// bare <NFe> root on drafts, so both are accepted.
type xmlNFe struct {
	InfNFe struct {
		ID  string `xml:"Id,attr"`
		Ide struct {
			DhEmi string `xml:"dhEmi"`
			DEmi  string `xml:"dEmi"`
		} `xml:"ide"`
		Emit struct {
			CNPJ string `xml:"CNPJ"`
		} `xml:"emit"`
		Det []struct {
			Prod struct {
				CProd  string `xml:"cProd"`
				CEAN   string `xml:"cEAN"`
				XProd  string `xml:"xProd"`
				UCom   string `xml:"uCom"`
				QCom   string `xml:"qCom"`
				VUnCom string `xml:"vUnCom"`
			} `xml:"prod"`
		} `xml:"det"`
		Total struct {
			ICMSTot struct {
				VNF string `xml:"vNF"`
			} `xml:"ICMSTot"`
		} `xml:"total"`
	} `xml:"infNFe"`
}

type xmlNFeProc struct {
	NFe xmlNFe `xml:"NFe"`
}

// Parse reads an NF-e document from r.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("nfe: read: %w", err)
	}

	var nfe xmlNFe
	var proc xmlNFeProc
	if err := xml.Unmarshal(data, &proc); err == nil && proc.NFe.InfNFe.ID != "" {
		nfe = proc.NFe
	} else if err := xml.Unmarshal(data, &nfe); err != nil {
		return nil, fmt.Errorf("nfe: parse: %w", err)
	}
	if nfe.InfNFe.ID == "" {
		return nil, fmt.Errorf("nfe: missing infNFe Id (access key)")
	}

	doc := &Document{
		SourceID:         strings.TrimPrefix(nfe.InfNFe.ID, "NFe"),
		SupplierDocument: strings.TrimSpace(nfe.InfNFe.Emit.CNPJ),
	}

	doc.IssueDate, err = parseIssueDate(nfe.InfNFe.Ide.DhEmi, nfe.InfNFe.Ide.DEmi)
	if err != nil {
		return nil, err
	}

	doc.TotalAmount, err = parseAmount(nfe.InfNFe.Total.ICMSTot.VNF, "vNF")
	if err != nil {
		return nil, err
	}

	for _, det := range nfe.InfNFe.Det {
		qty, err := parseAmount(det.Prod.QCom, "qCom")
		if err != nil {
			return nil, err
		}
		price, err := parseAmount(det.Prod.VUnCom, "vUnCom")
		if err != nil {
			return nil, err
		}
		doc.Items = append(doc.Items, Item{
			Barcode:          normalizeEAN(det.Prod.CEAN),
			ManufacturerCode: strings.TrimSpace(det.Prod.CProd),
			Unit:             strings.TrimSpace(det.Prod.UCom),
			Quantity:         qty,
			UnitPrice:        price,
			Description:      strings.TrimSpace(det.Prod.XProd),
		})
	}
	return doc, nil
}

// parseIssueDate accepts the modern dhEmi (RFC3339 with offset) and the
// legacy dEmi (date only).
func parseIssueDate(dhEmi, dEmi string) (time.Time, error) {
	if dhEmi != "" {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(dhEmi))
		if err != nil {
			return time.Time{}, fmt.Errorf("nfe: bad dhEmi %q: %w", dhEmi, err)
		}
		return t, nil
	}
	if dEmi != "" {
		t, err := time.Parse("2006-01-02", strings.TrimSpace(dEmi))
		if err != nil {
			return time.Time{}, fmt.Errorf("nfe: bad dEmi %q: %w", dEmi, err)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("nfe: missing issue date")
}

func parseAmount(s, field string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("nfe: bad %s %q: %w", field, s, err)
	}
	return d, nil
}

// normalizeEAN treats the schema's "no barcode" marker as empty.
func normalizeEAN(ean string) string {
	ean = strings.TrimSpace(ean)
	if strings.EqualFold(ean, "SEM GTIN") {
		return ""
	}
	return ean
}
