package xlsexport

import (
	"bytes"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/bytesandbalance/jovyne-sub000/models"
	invoiceapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/invoice"
)

type Provider interface {
	ExportInvoiceList(list []invoiceapimodels.InvoiceView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var invoiceHeaders = []string{"Number", "Payer", "Payee", "Job", "Rate", "Hours", "Amount", "Status", "Sent", "Paid"}

func (i impl) ExportInvoiceList(list []invoiceapimodels.InvoiceView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("xlsx file close failed")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, invoiceHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "xlsx header write failed")
	}
	if len(list) != 0 {
		row, err = writeInvoiceData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "xlsx data write failed")
		}
	}
	f.SetSheetName(sheet, "Invoices")
	return f.WriteToBuffer()
}

func writeInvoiceData(f *excelize.File, sheet string, list []invoiceapimodels.InvoiceView, row int) (int, error) {
	// one extra row for the totals line
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(invoiceHeaders), len(list)+2); err != nil {
		return row, err
	}
	var total float64
	for _, item := range list {
		row++
		col := 1
		if err := writeColumn(f, sheet, col, row, item.Number); err != nil {
			return row, err
		}

		col++
		if err := writeColumn(f, sheet, col, row, item.PayerName); err != nil {
			return row, err
		}

		col++
		if err := writeColumn(f, sheet, col, row, item.PayeeName); err != nil {
			return row, err
		}

		col++
		if err := writeColumn(f, sheet, col, row, item.JobTitle); err != nil {
			return row, err
		}

		col++
		if err := writeColumn(f, sheet, col, row, item.Rate); err != nil {
			return row, err
		}

		col++
		if !item.FlatFee {
			if err := writeColumn(f, sheet, col, row, item.Hours); err != nil {
				return row, err
			}
		}

		col++
		if err := writeColumn(f, sheet, col, row, item.Amount); err != nil {
			return row, err
		}

		col++
		if err := writeColumn(f, sheet, col, row, item.StatusName); err != nil {
			return row, err
		}

		col++
		if item.SentAt != nil {
			if err := writeColumn(f, sheet, col, row, item.SentAt.Format("02.01.2006")); err != nil {
				return row, err
			}
		}

		col++
		if item.PaidAt != nil {
			if err := writeColumn(f, sheet, col, row, item.PaidAt.Format("02.01.2006")); err != nil {
				return row, err
			}
		}
		if item.Status != models.InvoiceStatusCancelled {
			total += item.Amount
		}
	}
	row++
	if err := writeColumn(f, sheet, 1, row, "Total"); err != nil {
		return row, err
	}
	if err := writeColumn(f, sheet, 7, row, models.Round2(total)); err != nil {
		return row, err
	}
	return row, nil
}
