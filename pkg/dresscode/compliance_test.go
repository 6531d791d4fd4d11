package dresscode

import (
	"reflect"
	"testing"
)

func TestClassifyGender_FemaleMajority(t *testing.T) {
	g := ClassifyGender([]string{"blouse", "skirt", "shoes"})
	if g != Female {
		t.Errorf("ClassifyGender() = %v, want %v", g, Female)
	}
}

func TestClassifyGender_MaleMajority(t *testing.T) {
	g := ClassifyGender([]string{"polo_shirt", "pants", "doll_shoes"})
	if g != Male {
		t.Errorf("ClassifyGender() = %v, want %v", g, Male)
	}
}

func TestClassifyGender_TieDefaultsMale(t *testing.T) {
	ties := [][]string{
		{},
		nil,
		{"id_student"},
		{"blouse", "pants"},
		{"blouse", "skirt", "polo_shirt", "pants"},
		{"blouse", "skirt", "doll_shoes", "polo_shirt", "pants", "shoes"},
	}
	for _, classes := range ties {
		if g := ClassifyGender(classes); g != Male {
			t.Errorf("ClassifyGender(%v) = %v, want %v", classes, g, Male)
		}
	}
}

func TestClassifyGender_DuplicatesCountOnce(t *testing.T) {
	// Three blouse boxes are still a single indicator.
	g := ClassifyGender([]string{"blouse", "blouse", "blouse", "polo_shirt", "pants"})
	if g != Male {
		t.Errorf("ClassifyGender() = %v, want %v", g, Male)
	}
}

func TestCheckCompliance_MaleFullSet(t *testing.T) {
	r := CheckCompliance([]string{"polo_shirt", "pants", "shoes"}, Male)
	if !r.IsCompliant {
		t.Error("IsCompliant = false, want true")
	}
	if len(r.MissingItems) != 0 {
		t.Errorf("MissingItems = %v, want empty", r.MissingItems)
	}
	if r.Gender != Male {
		t.Errorf("Gender = %v, want %v", r.Gender, Male)
	}
}

func TestCheckCompliance_FootwearEquivalence(t *testing.T) {
	// doll_shoes satisfies the Female shoes requirement.
	r := CheckCompliance([]string{"blouse", "skirt", "doll_shoes"}, Female)
	if !r.IsCompliant {
		t.Errorf("IsCompliant = false, want true (missing %v)", r.MissingItems)
	}
}

func TestCheckCompliance_FootwearEquivalenceIsFemaleOnly(t *testing.T) {
	r := CheckCompliance([]string{"polo_shirt", "pants", "doll_shoes"}, Male)
	if r.IsCompliant {
		t.Error("IsCompliant = true, want false")
	}
	if want := []string{"Shoes"}; !reflect.DeepEqual(r.MissingItems, want) {
		t.Errorf("MissingItems = %v, want %v", r.MissingItems, want)
	}
}

func TestCheckCompliance_MissingOrderFollowsRequirements(t *testing.T) {
	// Detection order must not leak into the report.
	r := CheckCompliance([]string{"id_student"}, Male)
	want := []string{"Polo Shirt", "Black Pants", "Shoes"}
	if !reflect.DeepEqual(r.MissingItems, want) {
		t.Errorf("MissingItems = %v, want %v", r.MissingItems, want)
	}

	r = CheckCompliance([]string{"shoes", "polo_shirt"}, Male)
	if want := []string{"Black Pants"}; !reflect.DeepEqual(r.MissingItems, want) {
		t.Errorf("MissingItems = %v, want %v", r.MissingItems, want)
	}
}

func TestCheckCompliance_EmptyDetections(t *testing.T) {
	r := CheckCompliance(nil, Male)
	if r.IsCompliant {
		t.Error("IsCompliant = true, want false")
	}
	want := []string{"Polo Shirt", "Black Pants", "Shoes"}
	if !reflect.DeepEqual(r.MissingItems, want) {
		t.Errorf("MissingItems = %v, want %v", r.MissingItems, want)
	}
}

func TestCheckCompliance_MissingMirrorsCompliance(t *testing.T) {
	sets := [][]string{
		nil,
		{"polo_shirt"},
		{"polo_shirt", "pants"},
		{"polo_shirt", "pants", "shoes"},
		{"blouse", "skirt", "shoes", "id_student"},
	}
	for _, classes := range sets {
		for _, g := range []Gender{Male, Female} {
			r := CheckCompliance(classes, g)
			if r.IsCompliant != (len(r.MissingItems) == 0) {
				t.Errorf("CheckCompliance(%v, %v): IsCompliant=%v with MissingItems=%v",
					classes, g, r.IsCompliant, r.MissingItems)
			}
		}
	}
}

func TestCheckCompliance_DetectedItemsUseDisplayNames(t *testing.T) {
	r := CheckCompliance([]string{"doll_shoes", "id_student", "pants"}, Female)
	want := []string{"Shoes", "Student ID", "Black Pants"}
	if !reflect.DeepEqual(r.DetectedItems, want) {
		t.Errorf("DetectedItems = %v, want %v", r.DetectedItems, want)
	}
}

func TestClassName(t *testing.T) {
	if got := ClassName(4); got != "polo_shirt" {
		t.Errorf("ClassName(4) = %q, want %q", got, "polo_shirt")
	}
	if got := ClassName(42); got != "class_42" {
		t.Errorf("ClassName(42) = %q, want %q", got, "class_42")
	}
}

func TestRequired_ReturnsCopy(t *testing.T) {
	req := Required(Female)
	req[0] = "mutated"
	if got := Required(Female)[0]; got != "blouse" {
		t.Errorf("Required(Female)[0] = %q after caller mutation, want %q", got, "blouse")
	}
}
