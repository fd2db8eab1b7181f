// Package fixtures holds the demo bills loaded when SEED_FIXTURES is set.
package fixtures

import "github.com/geocoder89/billed/internal/domain/bill"

const Email = "a@a"

// Bills returns a fresh copy on every call so callers may mutate it.
func Bills() []bill.Bill {
	return []bill.Bill{
		{
			ID:           "47qAXb6fIm2zOKkLzMro",
			Email:        Email,
			Type:         "Hôtel et logement",
			Name:         "encore",
			Amount:       400,
			Date:         "2004-04-04",
			VAT:          "80",
			Pct:          20,
			Commentary:   "séminaire billed",
			FileURL:      "/receipts/preview-facture-free-201801-pdf-1.jpg",
			FileName:     "preview-facture-free-201801-pdf-1.jpg",
			Status:       bill.StatusPending,
			CommentAdmin: "ok",
		},
		{
			ID:           "BeKy5Mo4jkmdfPGYpTxZ",
			Email:        Email,
			Type:         "Transports",
			Name:         "test1",
			Amount:       100,
			Date:         "2001-01-01",
			Pct:          20,
			Commentary:   "plop",
			FileURL:      "/receipts/1592770761.jpeg",
			FileName:     "1592770761.jpeg",
			Status:       bill.StatusRefused,
			CommentAdmin: "en fait non",
		},
		{
			ID:           "UIUZtnPQvnbFnB0ozvJh",
			Email:        Email,
			Type:         "Services en ligne",
			Name:         "test3",
			Amount:       300,
			Date:         "2003-03-03",
			VAT:          "60",
			Pct:          20,
			FileURL:      "/receipts/facture-client-php-exportee-dans-document-pdf-enregistre-sur-disque-dur.png",
			FileName:     "facture-client-php-exportee-dans-document-pdf-enregistre-sur-disque-dur.png",
			Status:       bill.StatusAccepted,
			CommentAdmin: "bon bah d'accord",
		},
		{
			ID:           "qcCK3SzECmaZAGRrHjaC",
			Email:        Email,
			Type:         "Restaurants et bars",
			Name:         "test2",
			Amount:       200,
			Date:         "2002-02-02",
			VAT:          "40",
			Pct:          20,
			Commentary:   "test2",
			FileURL:      "/receipts/preview-facture-free-201801-pdf-1.jpg",
			FileName:     "preview-facture-free-201801-pdf-1.jpg",
			Status:       bill.StatusRefused,
			CommentAdmin: "pas la bonne facture",
		},
	}
}
