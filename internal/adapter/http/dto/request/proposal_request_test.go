package request

import (
	"testing"

	"propostas_service/internal/domain/entities"
)

func TestDraftRequest_ToDraftInput(t *testing.T) {
	r := DraftRequest{
		ClientName: "Jane Doe",
		Price:      4500,
		Stages:     []StageRequest{{Title: "Panel replacement", Status: " Em_Andamento "}},
		Materials:  []MaterialRequest{{Name: "200A panel", Quantity: 1, UnitCost: 900}},
	}
	in := r.ToDraftInput()
	if in.ClientName != "Jane Doe" || in.Price != 4500 {
		t.Fatalf("unexpected input: %+v", in)
	}
	if len(in.Stages) != 1 || in.Stages[0].Status != entities.StageStatusEmAndamento {
		t.Fatalf("unexpected stages: %+v", in.Stages)
	}
	if len(in.Materials) != 1 || in.Materials[0].UnitCost != 900 {
		t.Fatalf("unexpected materials: %+v", in.Materials)
	}

	empty := DraftRequest{}.ToDraftInput()
	if empty.Stages != nil || empty.Materials != nil {
		t.Fatalf("expected no stages or materials, got %+v", empty)
	}
}

func TestSignatureRequest_ToSignatureInput(t *testing.T) {
	in := SignatureRequest{SignerName: "Jane Doe", Method: " Drawn ", Image: "data:image/png;base64,AA==", Consent: true}.ToSignatureInput()
	if in.Method != entities.SignatureMethodDrawn {
		t.Fatalf("expected drawn, got %q", in.Method)
	}
	if in.ImageDataURL == "" || !in.Consent || in.TermsAccepted {
		t.Fatalf("unexpected input: %+v", in)
	}
}
