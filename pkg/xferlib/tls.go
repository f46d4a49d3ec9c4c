package xferlib

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
)

// TLSPolicy builds the tls.Config implementing §4.1.1's two flags:
//
//   - insecure suppresses the full set of certificate-validation errors
//     (unknown CA, wrong host, expired, wrong usage) by disabling Go's
//     built-in verification and substituting a verifier that only runs
//     the CRL check (so insecure does not bypass force_crl).
//   - forceCRL requires every leaf certificate to carry a reachable CRL
//     distribution point that confirms the certificate is not revoked;
//     absence or fetch failure is fatal even under insecure.
type TLSPolicy struct {
	Insecure bool
	ForceCRL bool
}

// Apply sets t.TLSClientConfig per the policy.
func (p TLSPolicy) Apply(t *http.Transport) {
	if !p.Insecure && !p.ForceCRL {
		return
	}
	cfg := &tls.Config{}
	if p.Insecure {
		cfg.InsecureSkipVerify = true
	}
	if p.ForceCRL {
		cfg.VerifyPeerCertificate = p.verifyCRL
	}
	t.TLSClientConfig = cfg
}

// verifyCRL is invoked by crypto/tls with the raw leaf certificate chain
// whenever InsecureSkipVerify is set (Go still calls VerifyPeerCertificate
// in that case) or when normal verification has already succeeded. It
// fetches each leaf's CRL distribution points and fails closed if none
// resolve or the certificate appears on a fetched list.
func (p TLSPolicy) verifyCRL(rawCerts [][]byte, _ [][]*x509.Certificate) error {
	if len(rawCerts) == 0 {
		return fmt.Errorf("tls policy: no certificate presented")
	}
	leaf, err := x509.ParseCertificate(rawCerts[0])
	if err != nil {
		return fmt.Errorf("tls policy: parse leaf certificate: %w", err)
	}
	if len(leaf.CRLDistributionPoints) == 0 {
		return fmt.Errorf("tls policy: certificate has no CRL distribution point, force_crl requires one")
	}
	for _, dp := range leaf.CRLDistributionPoints {
		revoked, err := fetchAndCheckCRL(dp, leaf)
		if err != nil {
			continue
		}
		if revoked {
			return fmt.Errorf("tls policy: certificate is revoked per CRL at %s", dp)
		}
		return nil
	}
	return fmt.Errorf("tls policy: CRL unavailable from any of %d distribution point(s)", len(leaf.CRLDistributionPoints))
}

func fetchAndCheckCRL(url string, leaf *x509.Certificate) (revoked bool, err error) {
	resp, err := http.Get(url)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("crl fetch: status %d", resp.StatusCode)
	}
	der := make([]byte, 0, 4096)
	buf := make([]byte, 4096)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			der = append(der, buf[:n]...)
		}
		if rerr != nil {
			break
		}
	}
	crl, err := x509.ParseRevocationList(der)
	if err != nil {
		return false, err
	}
	for _, rc := range crl.RevokedCertificateEntries {
		if rc.SerialNumber.Cmp(leaf.SerialNumber) == 0 {
			return true, nil
		}
	}
	return false, nil
}
